package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/k-negishi/zoom-calendar-sync/internal/config"
	"github.com/k-negishi/zoom-calendar-sync/internal/export"
	"github.com/k-negishi/zoom-calendar-sync/internal/gateway"
	"github.com/k-negishi/zoom-calendar-sync/internal/usecase"
)

func main() {
	listMode := flag.Bool("list", false, "同期せずミーティング一覧をJSONで出力する")
	csvMode := flag.Bool("csv", false, "同期せずミーティング一覧をCSVで出力する")
	eventsMode := flag.Bool("events", false, "同期せずカレンダーイベント一覧をJSONで出力する")
	flag.Parse()

	// 設定を読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定読み込みに失敗しました: %v", err)
	}
	log.Printf("Zoom Calendar Sync の設定:")
	cfg.LogValues(log.Printf)

	ctx := context.Background()

	// Zoom APIクライアントを初期化
	zoomClient := gateway.NewZoomClient(cfg.ZoomToken, cfg.MaxPageSize)

	// 一覧モードはカレンダーに触らずZoom側だけ読む
	if *listMode || *csvMode {
		if err := runListing(ctx, zoomClient, *csvMode); err != nil {
			log.Fatalf("ミーティング一覧の出力に失敗しました: %v", err)
		}
		return
	}

	// Google Calendarクライアントを初期化
	calendarRepo, err := gateway.NewGoogleCalendarRepository(
		ctx, []byte(cfg.GoogleCredentials), cfg.CalendarID, cfg.MaxPageSize*3)
	if err != nil {
		log.Fatalf("Google Calendarクライアントの初期化に失敗しました: %v", err)
	}

	// イベント一覧モードはカレンダー側だけ読む
	if *eventsMode {
		if err := runEventListing(ctx, calendarRepo); err != nil {
			log.Fatalf("カレンダーイベント一覧の出力に失敗しました: %v", err)
		}
		return
	}

	uc := usecase.NewSyncMeetingsUseCase(zoomClient, calendarRepo, cfg.MaxDays)

	// 終わるまで...
	for {
		log.Printf("同期サイクルを開始します（%d日先までのミーティングを同期）", cfg.MaxDays)
		result, err := uc.Execute(ctx)
		if err != nil {
			// 失敗したサイクルはログに残し、次のサイクルの再計算に任せる
			if cfg.RunOnceAndDie {
				log.Fatalf("同期サイクルが失敗しました: %v", err)
			}
			log.Printf("同期サイクルが失敗しました: %v", err)
		} else {
			log.Printf("同期サイクルが完了しました (対象: %d件, 既存: %d件, 作成: %d件, 削除: %d件)",
				result.Meetings, result.Events, result.Created, result.Deleted)
		}

		// 1回だけ実行するモードならループを抜ける
		if cfg.RunOnceAndDie {
			break
		}
		log.Printf("%d秒スリープします", cfg.WorkSleepDurationSeconds)
		time.Sleep(time.Duration(cfg.WorkSleepDurationSeconds) * time.Second)
	}
}

// runListing 同期せずにミーティング一覧を標準出力へ書き出す。
// 開始時刻のないミーティングを先頭にした決定的な並びで出力する
func runListing(ctx context.Context, zoomClient *gateway.ZoomClient, asCSV bool) error {
	meetings, err := zoomClient.GetUpcomingMeetings(ctx)
	if err != nil {
		return err
	}
	meetings = usecase.PartitionMeetings(meetings)

	if asCSV {
		return export.WriteMeetingsCSV(os.Stdout, meetings)
	}
	out, err := export.MeetingsJSON(meetings)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// runEventListing 同期せずにカレンダーイベント一覧を標準出力へ書き出す
func runEventListing(ctx context.Context, calendarRepo *gateway.GoogleCalendarRepository) error {
	events, err := calendarRepo.GetEvents(ctx)
	if err != nil {
		return err
	}
	out, err := export.EventsJSON(events)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
