package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

func TestNewSession(t *testing.T) {
	s := model.NewSession("ops@example.com", "tok")
	gt.True(t, s.IsValid())
	gt.False(t, s.IsFallback())

	s = model.NewSession("ops@example.com", "")
	gt.Equal(t, model.TokenAuthenticated, s.Token)

	var nilSession *model.Session
	gt.False(t, nilSession.IsValid())
}

func TestSessionJSON(t *testing.T) {
	data, err := json.Marshal(model.NewSession("ops@example.com", "tok"))
	gt.NoError(t, err).Required()
	gt.Equal(t, `{"email":"ops@example.com","token":"tok"}`, string(data))
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Now()
	s := model.NewSession("ops@example.com", "tok")
	gt.False(t, s.IsExpired(now))

	past := now.Add(-time.Minute)
	s.ExpiresAt = &past
	gt.True(t, s.IsExpired(now))
}
