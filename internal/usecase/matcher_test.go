package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/k-negishi/zoom-calendar-sync/internal/domain"
)

// syncedMeeting テスト用の標準ミーティング
func syncedMeeting() domain.Meeting {
	return domain.Meeting{
		UUID:      "yRyX6GUEDSaYV4STzlN5Tw==",
		ID:        99912393789,
		HostID:    "HJue2nQWV8NgQH3gPVnEZS",
		Topic:     "Weekly Sync",
		Type:      domain.MeetingTypeScheduled,
		StartTime: "2024-05-12T13:00:00Z",
		Duration:  60,
		Timezone:  "America/Chicago",
		CreatedAt: "2024-04-14T20:02:39Z",
		JoinURL:   "https://example.zoom.us/j/99912393789",
		User:      "alice@example.edu",
	}
}

// --- FindMatch テスト ---

func TestFindMatch_FullMatch(t *testing.T) {
	meeting := syncedMeeting()
	events := []domain.CalendarEvent{
		{ID: "other", Fingerprint: map[string]string{"uuid": "different"}},
		{ID: "match", Fingerprint: meeting.StringFields()},
	}

	index := FindMatch(events, meeting)
	assert.Equal(t, 1, index)
}

func TestFindMatch_SubsetFingerprintMatches(t *testing.T) {
	// フィンガープリント側のキーが少なくても、存在するキーが全て一致すれば照合成立
	meeting := syncedMeeting()
	events := []domain.CalendarEvent{
		{ID: "subset", Fingerprint: map[string]string{
			"uuid": meeting.UUID,
			"id":   "99912393789",
			"type": "2",
		}},
	}

	assert.Equal(t, 0, FindMatch(events, meeting))
}

func TestFindMatch_DifferentValue(t *testing.T) {
	meeting := syncedMeeting()
	fingerprint := meeting.StringFields()
	fingerprint["topic"] = "Renamed Meeting"

	events := []domain.CalendarEvent{{ID: "stale", Fingerprint: fingerprint}}
	assert.Equal(t, -1, FindMatch(events, meeting))
}

func TestFindMatch_FingerprintKeyMissingFromMeeting(t *testing.T) {
	// フィンガープリントにはstart_timeがあるが、ミーティング側にはない
	meeting := syncedMeeting()
	fingerprint := meeting.StringFields()
	meeting.StartTime = ""

	events := []domain.CalendarEvent{{ID: "stale", Fingerprint: fingerprint}}
	assert.Equal(t, -1, FindMatch(events, meeting))
}

func TestFindMatch_SkipsEventsWithoutFingerprint(t *testing.T) {
	// 手作業で登録されたイベントは照合対象にならない（エラーにもしない）
	meeting := syncedMeeting()
	events := []domain.CalendarEvent{
		{ID: "manual", Summary: meeting.Topic},
		{ID: "empty", Fingerprint: map[string]string{}},
		{ID: "match", Fingerprint: meeting.StringFields()},
	}

	assert.Equal(t, 2, FindMatch(events, meeting))
}

func TestFindMatch_NoEvents(t *testing.T) {
	assert.Equal(t, -1, FindMatch(nil, syncedMeeting()))
}

func TestFindMatch_ReturnsFirstMatch(t *testing.T) {
	meeting := syncedMeeting()
	events := []domain.CalendarEvent{
		{ID: "first", Fingerprint: meeting.StringFields()},
		{ID: "second", Fingerprint: meeting.StringFields()},
	}

	assert.Equal(t, 0, FindMatch(events, meeting))
}

// --- fingerprintMatches テスト ---

func TestFingerprintMatches_ExtraMeetingKeysIgnored(t *testing.T) {
	fingerprint := map[string]string{"uuid": "a1"}
	fields := map[string]string{"uuid": "a1", "topic": "extra", "id": "123"}
	assert.True(t, fingerprintMatches(fingerprint, fields))
}

func TestFingerprintMatches_MissingKey(t *testing.T) {
	fingerprint := map[string]string{"uuid": "a1", "secret": "x"}
	fields := map[string]string{"uuid": "a1"}
	assert.False(t, fingerprintMatches(fingerprint, fields))
}
