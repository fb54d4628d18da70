package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/models"
	"github.com/gravitl/scimdir/servercfg"
)

var jwtSecretKey []byte

// SetJWTSecret - sets the signing secret on server startup; an empty secret gets a random one
func SetJWTSecret(secret string) {
	if secret == "" {
		newValue, err := GenerateCryptoString(64)
		if err != nil {
			logger.FatalLog("something went wrong when generating JWT signature")
		}
		secret = newValue
		logger.Log(0, "no master key configured, provisioning tokens will not survive a restart")
	}
	jwtSecretKey = []byte(secret)
}

// CreateProvisioningJWT - signs a bearer token for an orchestrator client
func CreateProvisioningJWT(client string) (response string, err error) {
	if len(jwtSecretKey) == 0 {
		return "", errors.New("jwt secret is not set")
	}
	expirationTime := time.Now().Add(servercfg.GetJwtValidityDuration())
	claims := &models.ProvisioningClaims{
		Client: client,
		StandardClaims: jwt.StandardClaims{
			Issuer:    "scimdir",
			Subject:   fmt.Sprintf("client|%s", client),
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err == nil {
		return tokenString, nil
	}
	return "", err
}

// VerifyProvisioningToken - validates a bearer token and returns its client
func VerifyProvisioningToken(tokenString string) (string, error) {
	claims := &models.ProvisioningClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	return claims.Client, nil
}
