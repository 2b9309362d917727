package store

import (
	"testing"
	"time"
)

func TestSessionCreate(t *testing.T) {
	db := setupTestDB(t)
	ss, us := NewSessionStore(db), NewUserStore(db)

	u, err := us.Create("alice1", "alice@example.com", "h")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := ss.Create(u.ID, 24*time.Hour)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", sess.UserID, u.ID)
	}
}

func TestSessionGetByToken(t *testing.T) {
	db := setupTestDB(t)
	ss, us := NewSessionStore(db), NewUserStore(db)

	u, _ := us.Create("alice1", "alice@example.com", "h")
	created, _ := ss.Create(u.ID, 24*time.Hour)

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess == nil || sess.ID != created.ID {
		t.Error("expected the created session")
	}
}

func TestSessionGetByTokenExpired(t *testing.T) {
	db := setupTestDB(t)
	ss, us := NewSessionStore(db), NewUserStore(db)

	u, _ := us.Create("alice1", "alice@example.com", "h")
	created, _ := ss.Create(u.ID, -time.Minute)

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expired session should read as absent")
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	ss, us := NewSessionStore(db), NewUserStore(db)

	u, _ := us.Create("alice1", "alice@example.com", "h")
	ss.Create(u.ID, -time.Minute)
	ss.Create(u.ID, -time.Minute)
	live, _ := ss.Create(u.ID, time.Hour)

	count, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if count != 2 {
		t.Errorf("deleted %d, want 2", count)
	}
	sess, _ := ss.GetByToken(live.Token)
	if sess == nil {
		t.Error("live session should survive the sweep")
	}
}

func TestSessionDeleteByUserID(t *testing.T) {
	db := setupTestDB(t)
	ss, us := NewSessionStore(db), NewUserStore(db)

	u, _ := us.Create("alice1", "alice@example.com", "h")
	ss.Create(u.ID, time.Hour)
	ss.Create(u.ID, time.Hour)

	if err := ss.DeleteByUserID(u.ID); err != nil {
		t.Fatalf("delete by user id: %v", err)
	}

	var count int
	db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE user_id = ?`, u.ID).Scan(&count)
	if count != 0 {
		t.Errorf("expected 0 sessions, got %d", count)
	}
}
