package logic

import (
	"crypto/sha1"
	"encoding/base64"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/gravitl/scimdir/models"
)

func TestVerifyPassword(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		is := is.New(t)
		is.True(VerifyPassword("inSecure", "inSecure"))
		is.True(!VerifyPassword("inSecure", "insecure"))
		is.True(!VerifyPassword("", ""))
	})
	t.Run("Bcrypt", func(t *testing.T) {
		is := is.New(t)
		hashed, err := HashBcrypt("god")
		is.NoErr(err)
		is.True(VerifyPassword(hashed, "god"))
		is.True(!VerifyPassword(hashed, "devil"))
	})
	t.Run("SaltedSHA512", func(t *testing.T) {
		is := is.New(t)
		stored := hashSSHA512("inSecure", []byte("saltysalt"))
		is.True(VerifyPassword(stored, "inSecure"))
		is.True(!VerifyPassword(stored, "inSecure!"))
	})
	t.Run("SaltedSHA1", func(t *testing.T) {
		is := is.New(t)
		salt := []byte{1, 2, 3, 4}
		h := sha1.New()
		h.Write([]byte("secret"))
		h.Write(salt)
		stored := "{SSHA}" + base64.StdEncoding.EncodeToString(append(h.Sum(nil), salt...))
		is.True(VerifyPassword(stored, "secret"))
		is.True(VerifyPassword("{ssha}"+stored[len("{SSHA}"):], "secret"))
	})
	t.Run("UnsaltedSHA", func(t *testing.T) {
		is := is.New(t)
		sum := sha1.Sum([]byte("secret"))
		is.True(VerifyPassword("{SHA}"+base64.StdEncoding.EncodeToString(sum[:]), "secret"))
	})
	t.Run("BrokenHash", func(t *testing.T) {
		is := is.New(t)
		is.True(!VerifyPassword("{SSHA512}not-base64!", "x"))
		is.True(!VerifyPassword("{SSHA512}"+base64.StdEncoding.EncodeToString([]byte("short")), "x"))
	})
}

func TestVerifyCredential(t *testing.T) {
	d, _ := seededDirectory(t, Options{})
	t.Run("ActiveUser", func(t *testing.T) {
		ok, err := d.VerifyCredential("kkl", "inSecure")
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = d.VerifyCredential("kkl", "wrong")
		require.NoError(t, err)
		require.False(t, ok)
	})
	t.Run("InactiveUser", func(t *testing.T) {
		ok, err := d.VerifyCredential("admin", "god")
		require.ErrorIs(t, err, ErrInactiveUser)
		require.False(t, ok)
	})
	t.Run("UnknownUser", func(t *testing.T) {
		ok, err := d.VerifyCredential("nobody", "x")
		require.NoError(t, err)
		require.False(t, ok)
	})
	t.Run("HashedPassword", func(t *testing.T) {
		hashed, err := HashBcrypt("pa55")
		require.NoError(t, err)
		_, err = d.CreateUser(models.User{UserName: "hashed", Password: hashed, Active: true})
		require.NoError(t, err)
		ok, err := d.VerifyCredential("hashed", "pa55")
		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestHashPasswords(t *testing.T) {
	users, _ := SampleDirectory(testNamespace)
	for _, scheme := range []string{"bcrypt", "ssha512"} {
		t.Run(scheme, func(t *testing.T) {
			hashed, err := HashPasswords(users, scheme)
			require.NoError(t, err)
			require.Len(t, hashed, len(users))
			for i, u := range hashed {
				require.NotEqual(t, users[i].Password, u.Password)
				require.True(t, VerifyPassword(u.Password, users[i].Password))
			}
			again, err := HashPasswords(hashed, scheme)
			require.NoError(t, err)
			require.Equal(t, hashed[0].Password, again[0].Password)
		})
	}
	t.Run("SourceUntouched", func(t *testing.T) {
		_, err := HashPasswords(users, "bcrypt")
		require.NoError(t, err)
		require.Equal(t, "inSecure", users[0].Password)
	})
	t.Run("UnknownScheme", func(t *testing.T) {
		_, err := HashPasswords(users, "md5")
		require.ErrorIs(t, err, ErrUnknownHashScheme)
	})
}
