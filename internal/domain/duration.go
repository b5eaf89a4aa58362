package domain

import (
	"fmt"
	"time"
)

// フィンガープリント照合が文字列比較で成立するよう、
// 時刻は必ずUTCの "Z" 付きRFC3339で再レンダリングする（"+00:00" は使わない）
const utcLayout = "2006-01-02T15:04:05Z"

// AddDuration 開始時刻（RFC3339）に分単位の長さを加えて終了時刻を計算する
func AddDuration(startTime string, durationMinutes int) (string, error) {
	t, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		return "", fmt.Errorf("開始時刻の解析に失敗しました: %v", err)
	}
	end := t.UTC().Truncate(time.Second).Add(time.Duration(durationMinutes) * time.Minute)
	return end.Format(utcLayout), nil
}

// SubtractDays 基準時刻から指定日数を引いた時刻をUTCの文字列で返す。
// カレンダーイベント取得ウィンドウの下限（デフォルト90日前）の計算に使う。
func SubtractDays(now time.Time, days int) string {
	cutoff := now.UTC().Truncate(time.Second).AddDate(0, 0, -days)
	return cutoff.Format(utcLayout)
}
