package logic

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/servercfg"
)

const (
	// MasterClient - client name recorded for requests made with the master key
	MasterClient     = "masterclient"
	Unauthorized_Msg = "unauthorized"
)

// ErrUnauthorized - missing or invalid bearer token
var ErrUnauthorized = errors.New(Unauthorized_Msg)

// SecurityCheck - requires the master key or a provisioning token as bearer
func SecurityCheck(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := ClientFromBearer(r.Header.Get("Authorization"))
		if err != nil {
			logger.Log(2, "rejected request to", r.URL.Path, err.Error())
			ReturnErrorResponse(w, r, FormatError(ErrUnauthorized, "unauthorized"))
			return
		}
		r.Header.Set("client", client)
		next.ServeHTTP(w, r)
	}
}

// ClientFromBearer - resolves an Authorization header to a client name
func ClientFromBearer(header string) (string, error) {
	var tokenSplit = strings.Split(header, " ")
	if len(tokenSplit) < 2 || !strings.EqualFold(tokenSplit[0], "bearer") || tokenSplit[1] == "" {
		return "", ErrUnauthorized
	}
	authToken := tokenSplit[1]
	if authenticateMaster(authToken) {
		return MasterClient, nil
	}
	client, err := VerifyProvisioningToken(authToken)
	if err != nil {
		return "", ErrUnauthorized
	}
	return client, nil
}

func authenticateMaster(tokenString string) bool {
	key := servercfg.GetMasterKey()
	return key != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(key)) == 1
}
