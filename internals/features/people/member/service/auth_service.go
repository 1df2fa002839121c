package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/configs"
	"github.com/tuomas2/serviceform/internals/features/people/member/model"
	helper "github.com/tuomas2/serviceform/internals/helpers"
)

// PasswordStatus is the outcome of checking an emailed auth key.
type PasswordStatus int

const (
	PasswordNOK PasswordStatus = iota
	PasswordOK
	PasswordExpired
)

// authKey is one stored (hash, expire) pair; the member row keeps a JSON
// list of these, most recent last.
type authKey struct {
	Hash   string `json:"hash"`
	Expire int64  `json:"expire"`
}

func loadAuthKeys(m *model.Member) []authKey {
	var keys []authKey
	if len(m.MemberAuthKeysHashStorage) > 0 {
		// Corrupt storage is treated as empty; the member just needs a
		// fresh link.
		_ = json.Unmarshal(m.MemberAuthKeysHashStorage, &keys)
	}
	return keys
}

// MakeNewPassword mints a fresh single-use style auth key for the member,
// stores its bcrypt hash and returns the cleartext for embedding into an
// auth URL. Expired keys are pruned and the stored list is capped so a
// flood of resend requests cannot grow the row without bound.
func MakeNewPassword(db *gorm.DB, m *model.Member) (string, error) {
	now := time.Now()
	valid := make([]authKey, 0, configs.AuthStoreKeys)
	for _, k := range loadAuthKeys(m) {
		if k.Expire > now.Unix() {
			valid = append(valid, k)
		}
	}

	password := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	expire := now.AddDate(0, 0, configs.AuthKeyExpireDays)
	valid = append(valid, authKey{Hash: string(hash), Expire: expire.Unix()})
	if len(valid) > configs.AuthStoreKeys {
		valid = valid[len(valid)-configs.AuthStoreKeys:]
	}

	raw, err := json.Marshal(valid)
	if err != nil {
		return "", err
	}
	m.MemberAuthKeysHashStorage = raw
	err = db.Model(&model.Member{}).
		Where("member_id = ?", m.MemberID).
		Update("member_auth_keys_hash_storage", m.MemberAuthKeysHashStorage).Error
	if err != nil {
		return "", err
	}
	return password, nil
}

// CheckAuthKey matches a presented key against the stored hashes, newest
// first. A matching but expired key is reported as such so the member can
// be offered a fresh link instead of a plain rejection.
func CheckAuthKey(m *model.Member, password string) PasswordStatus {
	keys := loadAuthKeys(m)
	now := time.Now().Unix()
	for i := len(keys) - 1; i >= 0; i-- {
		if bcrypt.CompareHashAndPassword([]byte(keys[i].Hash), []byte(password)) == nil {
			if keys[i].Expire < now {
				return PasswordExpired
			}
			return PasswordOK
		}
	}
	return PasswordNOK
}

// MakeAuthURL mints a new key and returns the full authentication URL to
// email to the member.
func MakeAuthURL(db *gorm.DB, m *model.Member) (string, error) {
	password, err := MakeNewPassword(db, m)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/member/%d/authenticate/%s", configs.ServerURL, m.MemberID, password), nil
}

// SecretID is the member's obfuscated public identifier, used in report
// and unsubscribe URLs.
func SecretID(m *model.Member) string {
	return helper.EncodeSecretID(m.MemberID)
}

// UnsubscribeURL is the one-click participation email opt-out link,
// advertised in the List-Unsubscribe header.
func UnsubscribeURL(m *model.Member) string {
	return fmt.Sprintf("%s/member/%s/unsubscribe", configs.ServerURL, SecretID(m))
}

// ResponsibleUnsubscribeURL is the responsibility email counterpart of
// UnsubscribeURL, flipping the responsible opt-out flag instead.
func ResponsibleUnsubscribeURL(m *model.Member) string {
	return fmt.Sprintf("%s/member/%s/unsubscribe_responsible", configs.ServerURL, SecretID(m))
}

// FindBySecretID resolves an obfuscated member id from a URL.
func FindBySecretID(db *gorm.DB, secret string) (*model.Member, error) {
	id := helper.DecodeSecretID(secret)
	if id < 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var m model.Member
	if err := db.First(&m, "member_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
