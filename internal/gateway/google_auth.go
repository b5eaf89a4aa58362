package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// リフレッシュトークンの保存先（インストール型OAuthクライアントの場合のみ使用）
const defaultTokenFile = "token.json"

// credentialsProbe 認証情報JSONの種別判定用
type credentialsProbe struct {
	Type      string          `json:"type"`
	Installed json.RawMessage `json:"installed"`
	Web       json.RawMessage `json:"web"`
}

// newCalendarService 認証情報JSONからCalendar APIサービスを作成する。
// サービスアカウントとインストール型OAuthクライアントの両形式に対応する
func newCalendarService(ctx context.Context, credentialsJSON []byte) (*calendar.Service, error) {
	var probe credentialsProbe
	if err := json.Unmarshal(credentialsJSON, &probe); err != nil {
		return nil, fmt.Errorf("Google認証情報のJSON解析に失敗しました: %v", err)
	}

	switch {
	case probe.Type == "service_account":
		// サービスアカウント認証
		creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("Google認証情報の読み込みに失敗しました: %v", err)
		}
		service, err := calendar.NewService(ctx, option.WithCredentials(creds))
		if err != nil {
			return nil, fmt.Errorf("Google Calendar APIサービスの作成に失敗しました: %v", err)
		}
		return service, nil

	case len(probe.Installed) > 0 || len(probe.Web) > 0:
		// インストール型OAuthクライアント + ローカル保存のリフレッシュトークン
		oauthConfig, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("OAuthクライアント設定の読み込みに失敗しました: %v", err)
		}
		tokenSource, err := fileTokenSource(ctx, oauthConfig, tokenFilePath())
		if err != nil {
			return nil, err
		}
		service, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
		if err != nil {
			return nil, fmt.Errorf("Google Calendar APIサービスの作成に失敗しました: %v", err)
		}
		return service, nil

	default:
		return nil, fmt.Errorf("Google認証情報の形式を判定できません（service_account または installed/web が必要です）")
	}
}

// tokenFilePath トークンファイルのパスを取得
func tokenFilePath() string {
	if path := os.Getenv("GOOGLE_TOKEN_FILE"); path != "" {
		return path
	}
	return defaultTokenFile
}

// fileTokenSource 保存済みトークンを読み込み、リフレッシュ時に再保存するトークンソースを作成
func fileTokenSource(ctx context.Context, oauthConfig *oauth2.Config, path string) (oauth2.TokenSource, error) {
	token, err := loadToken(path)
	if err != nil {
		return nil, fmt.Errorf("保存済みトークン %s の読み込みに失敗しました（先に認可フローを実行してください）: %v", path, err)
	}
	return &savingTokenSource{
		source: oauthConfig.TokenSource(ctx, token),
		path:   path,
		last:   token,
	}, nil
}

// savingTokenSource リフレッシュされたトークンをファイルに書き戻すトークンソース
type savingTokenSource struct {
	source oauth2.TokenSource
	path   string
	last   *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}
	// リフレッシュで新しいアクセストークンになったときだけ保存する
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		s.last = token
		if err := saveToken(s.path, token); err != nil {
			log.Printf("Warning: トークンの保存に失敗しました: %v", err)
		}
	}
	return token, nil
}

// loadToken トークンファイルを読み込み
func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

// saveToken トークンファイルを保存（次回実行時に再利用される）
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
