package mq

import (
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/exp/slog"

	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/servercfg"
)

// MQ_DISCONNECT - quiesce time in milliseconds when disconnecting
const MQ_DISCONNECT = 250

// MQ_TIMEOUT - timeout for MQ in seconds
const MQ_TIMEOUT = 30

// ErrNoBroker - no broker endpoint is configured, events stay off
var ErrNoBroker = errors.New("no broker endpoint configured")

func setMqOptions(broker, user, password string, opts *mqtt.ClientOptions) {
	opts.AddBroker(broker)
	opts.ClientID = "scimdir-" + servercfg.GetAppName()
	if user != "" {
		opts.SetUsername(user)
		opts.SetPassword(password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(time.Second << 2)
	opts.SetKeepAlive(time.Minute)
	opts.SetWriteTimeout(time.Minute)
	opts.SetOrderMatters(false)
}

// SetupMQTT creates a connection to the broker and returns a publisher for directory events
func SetupMQTT() (*Publisher, error) {
	broker, _ := servercfg.GetMessageQueueEndpoint()
	if broker == "" {
		return nil, ErrNoBroker
	}
	opts := mqtt.NewClientOptions()
	setMqOptions(broker, servercfg.GetMqUserName(), servercfg.GetMqPassword(), opts)
	logger.Log(0, "mq client connecting to", broker, "as", opts.ClientID)
	opts.SetConnectionLostHandler(func(c mqtt.Client, e error) {
		slog.Warn("detected broker connection lost", "err", e.Error())
	})
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		slog.Info("connected to broker", "broker", broker)
	})
	client := mqtt.NewClient(opts)
	tperiod := time.Now().Add(10 * time.Second)
	for {
		token := client.Connect()
		if token.WaitTimeout(MQ_TIMEOUT*time.Second) && token.Error() == nil {
			break
		}
		logger.Log(2, "unable to connect to broker, retrying ...")
		if time.Now().After(tperiod) {
			if token.Error() != nil {
				return nil, token.Error()
			}
			return nil, errors.New("could not connect to broker, token timeout")
		}
		time.Sleep(2 * time.Second)
	}
	return &Publisher{client: client, closer: client}, nil
}
