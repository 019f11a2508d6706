package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret derives a bcrypt hash for a shared secret. Used by operators to
// produce the PAYMENT_WEBHOOK_SECRET_BCRYPT value; the plaintext secret is
// never stored.
func HashSecret(secret string) (string, error) {
    h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
    if err != nil {
        return "", err
    }
    return string(h), nil
}

// VerifySecret reports whether the presented secret matches the stored bcrypt
// hash. The comparison cost is constant with respect to the secret contents.
func VerifySecret(hash, secret string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
