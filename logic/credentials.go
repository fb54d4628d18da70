package logic

import (
	crand "crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/gravitl/scimdir/models"
)

// salted SHA schemes exported by LDAP directories, salt follows the digest
var saltedSchemes = map[string]func() hash.Hash{
	"{SSHA}":    sha1.New,
	"{SSHA256}": sha256.New,
	"{SSHA512}": sha512.New,
}

// unsalted SHA schemes
var plainSchemes = map[string]func() hash.Hash{
	"{SHA}":    sha1.New,
	"{SHA256}": sha256.New,
	"{SHA512}": sha512.New,
}

// VerifyPassword - compares a candidate with a stored password that is plain text,
// bcrypt, or an LDAP {SHA}/{SSHA} family hash
func VerifyPassword(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	if strings.HasPrefix(stored, "{") {
		if end := strings.Index(stored, "}"); end > 0 {
			scheme := strings.ToUpper(stored[:end+1])
			encoded := stored[end+1:]
			if newHash, ok := saltedSchemes[scheme]; ok {
				return verifySalted(newHash, encoded, candidate)
			}
			if newHash, ok := plainSchemes[scheme]; ok {
				return verifySalted(newHash, encoded, candidate)
			}
		}
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// verifySalted - digest(candidate + salt) must equal the leading digest bytes; an empty salt covers {SHA}
func verifySalted(newHash func() hash.Hash, encoded, candidate string) bool {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	h := newHash()
	size := h.Size()
	if len(raw) < size {
		return false
	}
	digest, salt := raw[:size], raw[size:]
	h.Write([]byte(candidate))
	h.Write(salt)
	return subtle.ConstantTimeCompare(h.Sum(nil), digest) == 1
}

// hashSSHA512 - {SSHA512} form of a password with the given salt
func hashSSHA512(password string, salt []byte) string {
	h := sha512.New()
	h.Write([]byte(password))
	h.Write(salt)
	return "{SSHA512}" + base64.StdEncoding.EncodeToString(append(h.Sum(nil), salt...))
}

// HashBcrypt - bcrypt form of a password
func HashBcrypt(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ErrUnknownHashScheme - HashPasswords was asked for a scheme it cannot produce
var ErrUnknownHashScheme = errors.New("unknown password hash scheme")

// HashPasswords - copies of users whose plain passwords are stored as bcrypt or {SSHA512}.
// Passwords already carrying a known scheme are left alone.
func HashPasswords(users []models.User, scheme string) ([]models.User, error) {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		u = u.Clone()
		if u.Password != "" && !isHashed(u.Password) {
			switch scheme {
			case "bcrypt":
				hashed, err := HashBcrypt(u.Password)
				if err != nil {
					return nil, err
				}
				u.Password = hashed
			case "ssha512":
				salt := make([]byte, 8)
				if _, err := crand.Read(salt); err != nil {
					return nil, err
				}
				u.Password = hashSSHA512(u.Password, salt)
			default:
				return nil, fmt.Errorf("%w: %q", ErrUnknownHashScheme, scheme)
			}
		}
		out = append(out, u)
	}
	return out, nil
}

func isHashed(stored string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return true
	}
	if !strings.HasPrefix(stored, "{") {
		return false
	}
	scheme, _, found := strings.Cut(stored, "}")
	if !found {
		return false
	}
	scheme = strings.ToUpper(scheme) + "}"
	_, salted := saltedSchemes[scheme]
	_, plain := plainSchemes[scheme]
	return salted || plain
}

// ErrInactiveUser - credentials of deactivated users are never verified
var ErrInactiveUser = errors.New("user is not active")

// VerifyCredential - checks a user name and password against the directory
func (d *Directory) VerifyCredential(userName, password string) (bool, error) {
	u, err := d.FindUserByName(userName)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !u.Active {
		return false, ErrInactiveUser
	}
	return VerifyPassword(u.Password, password), nil
}
