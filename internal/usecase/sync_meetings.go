package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/k-negishi/zoom-calendar-sync/internal/domain"
)

// MeetingRepository Zoomミーティング一覧を取得するポート
type MeetingRepository interface {
	GetUpcomingMeetings(ctx context.Context) ([]domain.Meeting, error)
}

// CalendarRepository カレンダーイベントを操作するポート
type CalendarRepository interface {
	GetEvents(ctx context.Context) ([]domain.CalendarEvent, error)
	InsertEvent(ctx context.Context, event domain.CalendarEvent) (domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// SyncResult 同期サイクルの実行結果
type SyncResult struct {
	Meetings int // フィルタ後の同期対象ミーティング数
	Events   int // 取得した既存イベント数
	Created  int // 作成したイベント数
	Deleted  int // 削除したイベント数
	Failed   int // 失敗した作成・削除の件数
}

// SyncMeetingsUseCase Zoomミーティングをカレンダーへ同期するユースケース
type SyncMeetingsUseCase struct {
	meetingRepo  MeetingRepository
	calendarRepo CalendarRepository
	maxDays      int
	clock        func() time.Time
	logf         func(format string, args ...interface{})
}

// NewSyncMeetingsUseCase ユースケースを生成
func NewSyncMeetingsUseCase(meetingRepo MeetingRepository, calendarRepo CalendarRepository, maxDays int) *SyncMeetingsUseCase {
	return &SyncMeetingsUseCase{
		meetingRepo:  meetingRepo,
		calendarRepo: calendarRepo,
		maxDays:      maxDays,
		clock:        time.Now,
		logf:         log.Printf,
	}
}

// Execute 1同期サイクルを実行する。
// 取得フェーズの失敗は変更を一切発行せずにサイクルを中断する。
// 作成・削除の失敗はログに残して処理を継続し、最後にまとめてエラーとして返す
// （状態は毎サイクル再計算されるため、次サイクルで自己修復される）
func (uc *SyncMeetingsUseCase) Execute(ctx context.Context) (SyncResult, error) {
	result := SyncResult{}

	// Zoomから全ミーティングを取得してフィルタ
	meetings, err := uc.meetingRepo.GetUpcomingMeetings(ctx)
	if err != nil {
		return result, err
	}
	meetings = FilterUpcomingMeetings(meetings, uc.maxDays, uc.clock())
	result.Meetings = len(meetings)
	uc.logf("同期対象のZoomミーティング: %d件", len(meetings))

	// Googleカレンダーから既存イベントを取得してペンディング集合にする
	pending, err := uc.calendarRepo.GetEvents(ctx)
	if err != nil {
		return result, err
	}
	result.Events = len(pending)
	uc.logf("既存のカレンダーイベント: %d件", len(pending))

	var failures []error

	// ミーティングごとに対応イベントを探し、なければ作成する
	for _, meeting := range meetings {
		index := FindMatch(pending, meeting)
		if index >= 0 {
			// 照合できたイベントはペンディング集合から外す。
			// 削除対象にも、別ミーティングの再照合対象にもならない
			pending = append(pending[:index], pending[index+1:]...)
			continue
		}

		event, err := AsCalendarEvent(meeting)
		if err != nil {
			result.Failed++
			failures = append(failures, err)
			continue
		}
		created, err := uc.calendarRepo.InsertEvent(ctx, event)
		if err != nil {
			result.Failed++
			failures = append(failures, err)
			uc.logf("イベント作成に失敗しました: %v", err)
			continue
		}
		result.Created++
		uc.logf("カレンダーイベントを作成しました: %s", created.HTMLLink)
	}

	// 照合されずに残ったイベントは廃止扱いで削除する
	uc.logf("廃止されたカレンダーイベントを%d件削除します", len(pending))
	for _, event := range pending {
		if err := uc.calendarRepo.DeleteEvent(ctx, event.ID); err != nil {
			result.Failed++
			failures = append(failures, err)
			uc.logf("イベント削除に失敗しました: %v", err)
			continue
		}
		result.Deleted++
	}

	return result, errors.Join(failures...)
}
