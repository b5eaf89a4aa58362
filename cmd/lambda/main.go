package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/k-negishi/zoom-calendar-sync/internal/config"
	"github.com/k-negishi/zoom-calendar-sync/internal/gateway"
	"github.com/k-negishi/zoom-calendar-sync/internal/usecase"
)

// LambdaEvent Lambda実行時のイベント構造体
// EventBridge Schedulerからの定期実行のため中身は使用しない
type LambdaEvent struct{}

// LambdaResponse Lambda実行結果のレスポンス
type LambdaResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Created    int    `json:"created"`
	Deleted    int    `json:"deleted"`
}

// handler 1回の起動で同期サイクルを1周実行する
func handler(ctx context.Context, event LambdaEvent) (LambdaResponse, error) {
	// 設定を読み込み（Lambda環境ではParameter Storeから取得する）
	cfg, err := config.Load()
	if err != nil {
		log.Printf("設定読み込みに失敗しました: %v", err)
		return LambdaResponse{
			StatusCode: 500,
			Message:    fmt.Sprintf("設定読み込みエラー: %v", err),
		}, err
	}
	cfg.LogValues(log.Printf)

	// Zoom APIクライアントを初期化
	zoomClient := gateway.NewZoomClient(cfg.ZoomToken, cfg.MaxPageSize)

	// Google Calendarクライアントを初期化
	calendarRepo, err := gateway.NewGoogleCalendarRepository(
		ctx, []byte(cfg.GoogleCredentials), cfg.CalendarID, cfg.MaxPageSize*3)
	if err != nil {
		log.Printf("Google Calendarクライアントの初期化に失敗しました: %v", err)
		return LambdaResponse{
			StatusCode: 500,
			Message:    fmt.Sprintf("Google Calendar初期化エラー: %v", err),
		}, err
	}

	uc := usecase.NewSyncMeetingsUseCase(zoomClient, calendarRepo, cfg.MaxDays)

	result, err := uc.Execute(ctx)
	if err != nil {
		log.Printf("同期サイクルが失敗しました: %v", err)
		return LambdaResponse{
			StatusCode: 500,
			Message:    fmt.Sprintf("同期サイクルエラー: %v", err),
			Created:    result.Created,
			Deleted:    result.Deleted,
		}, err
	}

	log.Printf("同期サイクルが完了しました (対象: %d件, 作成: %d件, 削除: %d件)",
		result.Meetings, result.Created, result.Deleted)
	return LambdaResponse{
		StatusCode: 200,
		Message:    "同期が完了しました",
		Created:    result.Created,
		Deleted:    result.Deleted,
	}, nil
}

func main() {
	lambda.Start(handler)
}
