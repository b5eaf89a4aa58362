package usecase

import (
	"sort"
	"time"

	"github.com/k-negishi/zoom-calendar-sync/internal/domain"
)

// horizonCutoff 現在時刻＋日数をUTC・"Z"なしの文字列で返す。
// "Z"付きの開始時刻と辞書順比較すると、ちょうど境界のミーティングは
// カットオフより大きくなり除外される（start_time < cutoff の意味を保つ）
func horizonCutoff(now time.Time, maxDays int) string {
	return now.UTC().Truncate(time.Second).AddDate(0, 0, maxDays).Format("2006-01-02T15:04:05")
}

// FilterUpcomingMeetings 同期対象のミーティングを絞り込み、開始時刻順に整列する。
// 開始時刻のないミーティングと、現在からmaxDays日以降に始まるミーティングを落とす。
// 同じ入力に対して常に同じ出力を返す（冪等）
func FilterUpcomingMeetings(meetings []domain.Meeting, maxDays int, now time.Time) []domain.Meeting {
	cutoff := horizonCutoff(now, maxDays)

	filtered := make([]domain.Meeting, 0, len(meetings))
	for _, meeting := range meetings {
		if !meeting.HasStartTime() {
			continue
		}
		// 開始時刻はUTC正規化済みのISO文字列なので辞書順比較で足りる
		if meeting.StartTime < cutoff {
			filtered = append(filtered, meeting)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartTime < filtered[j].StartTime
	})
	return filtered
}

// PartitionMeetings 一覧表示用にミーティングを分類して並べる。
// 開始時刻のないミーティング（"Standing"）を（ユーザー, トピック）順、
// 開始時刻のあるミーティングを開始時刻順に整列し、前者を先頭に連結する
func PartitionMeetings(meetings []domain.Meeting) []domain.Meeting {
	indefinite := make([]domain.Meeting, 0)
	definite := make([]domain.Meeting, 0)
	for _, meeting := range meetings {
		if meeting.HasStartTime() {
			definite = append(definite, meeting)
		} else {
			indefinite = append(indefinite, meeting)
		}
	}

	sort.SliceStable(indefinite, func(i, j int) bool {
		if indefinite[i].User != indefinite[j].User {
			return indefinite[i].User < indefinite[j].User
		}
		return indefinite[i].Topic < indefinite[j].Topic
	})
	sort.SliceStable(definite, func(i, j int) bool {
		return definite[i].StartTime < definite[j].StartTime
	})

	return append(indefinite, definite...)
}
