package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/k-negishi/zoom-calendar-sync/internal/domain"
)

// ZoomClient Zoom REST APIを使用したMeetingRepositoryの実装
type ZoomClient struct {
	token       string
	maxPageSize int
	httpClient  *http.Client
	baseURL     string
	logf        func(format string, args ...interface{})
}

// zoomUser Zoom APIのユーザーレスポンス構造体
type zoomUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// zoomUserListResponse Zoom APIのユーザー一覧レスポンス構造体。
// Usersはポインタにして "users" キー欠落を検出できるようにしている
type zoomUserListResponse struct {
	PageCount int         `json:"page_count"`
	Users     *[]zoomUser `json:"users"`
}

// zoomMeetingListResponse Zoom APIのミーティング一覧レスポンス構造体
type zoomMeetingListResponse struct {
	PageCount int               `json:"page_count"`
	Meetings  *[]domain.Meeting `json:"meetings"`
}

// NewZoomClient Zoom APIクライアントを作成
func NewZoomClient(token string, maxPageSize int) *ZoomClient {
	return &ZoomClient{
		token:       token,
		maxPageSize: maxPageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://api.zoom.us/v2",
		logf:    log.Printf,
	}
}

// ListActiveUsers アカウント内のアクティブユーザー一覧を取得
func (z *ZoomClient) ListActiveUsers(ctx context.Context) ([]string, error) {
	requestURL := fmt.Sprintf("%s/users?page_number=1&page_size=%d&status=active", z.baseURL, z.maxPageSize)

	var result zoomUserListResponse
	if err := z.getJSON(ctx, requestURL, &result); err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %v", err)
	}
	if result.Users == nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: レスポンスに users キーがありません")
	}
	// 1ページのみ取得する設計なので、収まらない場合は警告を残す
	if result.PageCount > 1 {
		z.logf("Warning: ユーザーが%dページに及んでいます。MAX_PAGE_SIZEを増やしてください", result.PageCount)
	}

	users := make([]string, 0, len(*result.Users))
	for _, user := range *result.Users {
		users = append(users, user.Email)
	}
	return users, nil
}

// ListUpcomingMeetings 指定ユーザーの今後のミーティング一覧を取得
func (z *ZoomClient) ListUpcomingMeetings(ctx context.Context, user string) ([]domain.Meeting, error) {
	requestURL := fmt.Sprintf("%s/users/%s/meetings?page_number=1&page_size=%d&type=upcoming",
		z.baseURL, url.PathEscape(user), z.maxPageSize)

	var result zoomMeetingListResponse
	if err := z.getJSON(ctx, requestURL, &result); err != nil {
		return nil, fmt.Errorf("ユーザー %s のミーティング一覧の取得に失敗しました: %v", user, err)
	}
	if result.Meetings == nil {
		return nil, fmt.Errorf("ユーザー %s のミーティング一覧の取得に失敗しました: レスポンスに meetings キーがありません", user)
	}
	if result.PageCount > 1 {
		z.logf("Warning: ユーザー %s のミーティングが%dページに及んでいます。MAX_PAGE_SIZEを増やしてください", user, result.PageCount)
	}

	// 所有ユーザーをタグ付けして返す
	meetings := make([]domain.Meeting, 0, len(*result.Meetings))
	for _, meeting := range *result.Meetings {
		meeting.User = user
		meetings = append(meetings, meeting)
	}
	return meetings, nil
}

// GetUpcomingMeetings 全ユーザーの今後のミーティングをまとめて取得。
// ユーザー列挙 → ユーザーごとのミーティング取得の順序を保つ
func (z *ZoomClient) GetUpcomingMeetings(ctx context.Context) ([]domain.Meeting, error) {
	users, err := z.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	meetings := make([]domain.Meeting, 0)
	for _, user := range users {
		userMeetings, err := z.ListUpcomingMeetings(ctx, user)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, userMeetings...)
	}
	return meetings, nil
}

// getJSON Zoom APIにGETリクエストを送りJSONレスポンスをデコードする
func (z *ZoomClient) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %v", err)
	}

	// ヘッダーを設定
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", z.token))

	// APIリクエストを送信
	resp, err := z.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Zoom APIリクエストの送信に失敗しました: %v", err)
	}
	defer resp.Body.Close()

	// レスポンスを確認
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("Zoom API呼び出しが失敗しました (Status: %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("レスポンスのJSON解析に失敗しました: %v", err)
	}
	return nil
}
