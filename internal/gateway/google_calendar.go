package gateway

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/k-negishi/zoom-calendar-sync/internal/domain"
)

// カレンダーイベント取得ウィンドウの下限（現在から遡る日数）
const eventWindowDays = 90

// EventsAPI Google Calendar API呼び出しの薄いポート（テスト時にモック差し替え）
type EventsAPI interface {
	ListEvents(ctx context.Context, calendarID, timeMin string, maxResults int64) ([]*calendar.Event, error)
	InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// googleEventsAPI calendar.Serviceを使ったEventsAPIの実装
type googleEventsAPI struct {
	service *calendar.Service
}

func (g *googleEventsAPI) ListEvents(ctx context.Context, calendarID, timeMin string, maxResults int64) ([]*calendar.Event, error) {
	result, err := g.service.Events.List(calendarID).
		TimeMin(timeMin).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (g *googleEventsAPI) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	return g.service.Events.Insert(calendarID, event).
		ConferenceDataVersion(0).
		SendUpdates("none").
		Context(ctx).
		Do()
}

func (g *googleEventsAPI) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return g.service.Events.Delete(calendarID, eventID).
		SendUpdates("none").
		Context(ctx).
		Do()
}

// GoogleCalendarRepository Google Calendar APIを使用したCalendarRepositoryの実装
type GoogleCalendarRepository struct {
	api        EventsAPI
	calendarID string
	maxResults int64
	clock      func() time.Time
	logf       func(format string, args ...interface{})
}

// NewGoogleCalendarRepository Google Calendarリポジトリを作成
func NewGoogleCalendarRepository(ctx context.Context, credentialsJSON []byte, calendarID string, maxResults int) (*GoogleCalendarRepository, error) {
	service, err := newCalendarService(ctx, credentialsJSON)
	if err != nil {
		return nil, err
	}
	return NewGoogleCalendarRepositoryWithAPI(&googleEventsAPI{service: service}, calendarID, maxResults), nil
}

// NewGoogleCalendarRepositoryWithAPI EventsAPIを差し替えてリポジトリを作成（テスト用）
func NewGoogleCalendarRepositoryWithAPI(api EventsAPI, calendarID string, maxResults int) *GoogleCalendarRepository {
	return &GoogleCalendarRepository{
		api:        api,
		calendarID: calendarID,
		maxResults: int64(maxResults),
		clock:      time.Now,
		logf:       log.Printf,
	}
}

// GetEvents 過去90日から現在までのウィンドウでイベント一覧を取得
func (r *GoogleCalendarRepository) GetEvents(ctx context.Context) ([]domain.CalendarEvent, error) {
	timeMin := domain.SubtractDays(r.clock(), eventWindowDays)
	r.logf("%s 以降のイベントを最大%d件取得します", timeMin, r.maxResults)

	items, err := r.api.ListEvents(ctx, r.calendarID, timeMin, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("カレンダーイベントの取得に失敗しました: %v", err)
	}

	events := make([]domain.CalendarEvent, 0, len(items))
	for _, item := range items {
		events = append(events, convertToEvent(item))
	}
	return events, nil
}

// InsertEvent イベントを作成し、リンク等が付与された作成結果を返す
func (r *GoogleCalendarRepository) InsertEvent(ctx context.Context, event domain.CalendarEvent) (domain.CalendarEvent, error) {
	created, err := r.api.InsertEvent(ctx, r.calendarID, buildAPIEvent(event))
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("カレンダーイベントの作成に失敗しました: %v", err)
	}
	return convertToEvent(created), nil
}

// DeleteEvent 指定IDのイベントを削除
func (r *GoogleCalendarRepository) DeleteEvent(ctx context.Context, eventID string) error {
	if err := r.api.DeleteEvent(ctx, r.calendarID, eventID); err != nil {
		return fmt.Errorf("カレンダーイベント %s の削除に失敗しました: %v", eventID, err)
	}
	return nil
}

// convertToEvent Google Calendar APIのイベントをドメインエンティティに変換
func convertToEvent(event *calendar.Event) domain.CalendarEvent {
	converted := domain.CalendarEvent{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		HTMLLink:    event.HtmlLink,
	}
	if event.Start != nil {
		converted.StartTime = eventTimeString(event.Start)
		converted.Timezone = event.Start.TimeZone
	}
	if event.End != nil {
		converted.EndTime = eventTimeString(event.End)
	}
	// フィンガープリント（このシステムが作成したイベントだけが持つ）
	if event.ExtendedProperties != nil && len(event.ExtendedProperties.Private) > 0 {
		converted.Fingerprint = event.ExtendedProperties.Private
	}
	return converted
}

// eventTimeString 時刻指定・終日どちらの形式でも文字列で取得
func eventTimeString(eventTime *calendar.EventDateTime) string {
	if eventTime.DateTime != "" {
		return eventTime.DateTime
	}
	return eventTime.Date
}

// buildAPIEvent ドメインエンティティをGoogle Calendar APIのイベントに変換
func buildAPIEvent(event domain.CalendarEvent) *calendar.Event {
	apiEvent := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start: &calendar.EventDateTime{
			DateTime: event.StartTime,
			TimeZone: event.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.EndTime,
			TimeZone: event.Timezone,
		},
	}
	if len(event.Fingerprint) > 0 {
		apiEvent.ExtendedProperties = &calendar.EventExtendedProperties{
			Private: event.Fingerprint,
		}
	}
	return apiEvent
}
