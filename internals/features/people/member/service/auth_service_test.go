package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuomas2/serviceform/internals/configs"
	"github.com/tuomas2/serviceform/internals/features/people/member/model"
)

func memberWithKeys(t *testing.T, keys []authKey) *model.Member {
	raw, err := json.Marshal(keys)
	require.NoError(t, err)
	return &model.Member{MemberID: 1, MemberAuthKeysHashStorage: raw}
}

func hashOf(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestCheckAuthKey(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()

	m := memberWithKeys(t, []authKey{
		{Hash: hashOf(t, "old-key"), Expire: past},
		{Hash: hashOf(t, "fresh-key"), Expire: future},
	})

	assert.Equal(t, PasswordOK, CheckAuthKey(m, "fresh-key"))
	assert.Equal(t, PasswordExpired, CheckAuthKey(m, "old-key"))
	assert.Equal(t, PasswordNOK, CheckAuthKey(m, "never-issued"))
}

func TestUnsubscribeURLsTargetSeparateFlows(t *testing.T) {
	configs.CodeLetters = "xiuql"
	configs.ServerURL = "https://example.org"
	m := &model.Member{MemberID: 42}

	secret := SecretID(m)
	assert.Equal(t, "https://example.org/member/"+secret+"/unsubscribe", UnsubscribeURL(m))
	assert.Equal(t, "https://example.org/member/"+secret+"/unsubscribe_responsible",
		ResponsibleUnsubscribeURL(m))
}

func TestCheckAuthKeyEmptyStorage(t *testing.T) {
	m := &model.Member{MemberID: 1}
	assert.Equal(t, PasswordNOK, CheckAuthKey(m, "anything"))

	corrupt := &model.Member{MemberID: 1, MemberAuthKeysHashStorage: []byte("not json")}
	assert.Equal(t, PasswordNOK, CheckAuthKey(corrupt, "anything"))
}
