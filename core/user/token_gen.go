package user

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stagedock/stagedock/core"
)

// Password reset tokens are self-contained: "<day-stamp>-<signature>" where
// the signature is an HMAC over the user's mutable state. Using the
// password hash and last login in the payload invalidates every issued
// token as soon as the password changes or the user logs in.

var (
	tokenSalt = []byte("stagedock.core.user.token_gen")
	NowFunc   = time.Now // mockable

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeUID encodes the user's ID for embedding in a reset URL.
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

func decodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}

// MakeToken issues a password reset token for usr, valid for
// core.Conf.PasswordResetTimeoutDelta.
func MakeToken(usr User) (string, error) {
	return makeTokenAt(usr, dayStamp(NowFunc()))
}

// verifyToken checks the token's signature against usr's current state and
// its day stamp against the reset timeout.
func verifyToken(usr User, token string) error {
	if token == "" {
		return errInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return errInvalidToken
	}

	data, err := b32.DecodeString(parts[0])
	if err != nil {
		return errInvalidToken
	}
	stamp, err := strconv.Atoi(string(data))
	if err != nil {
		return errInvalidToken
	}

	want, err := makeTokenAt(usr, stamp)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(token)) == 0 {
		return errInvalidToken
	}

	if (dayStamp(time.Now()) - stamp) > int(core.Conf.PasswordResetTimeoutDelta/(24*time.Hour)) {
		return errTokenExpired
	}
	return nil
}

func makeTokenAt(usr User, stamp int) (string, error) {
	sig, err := sign(statePayload(usr, stamp))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", b32.EncodeToString([]byte(strconv.Itoa(stamp))), sig), nil
}

// dayStamp counts days since 2001-01-01; a day of resolution is plenty for
// a multi-hour reset window and keeps tokens short.
func dayStamp(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func sign(payload []byte) (string, error) {
	key := sha256.Sum256(append(tokenSalt, core.Conf.SecretKey...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(payload); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

func statePayload(usr User, stamp int) []byte {
	var val bytes.Buffer
	val.WriteString(usr.ID)
	val.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		val.WriteString(usr.LastLogin.String())
	}
	val.WriteString(strconv.Itoa(stamp))
	return val.Bytes()
}
