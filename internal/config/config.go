package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
)

// デフォルト値（環境変数で上書き可能）
const (
	DefaultCalendarID        = "primary"
	DefaultMaxDays           = 90
	DefaultMaxPageSize       = 150
	DefaultWorkSleepDuration = 60
)

// SSMParameterGetter Parameter Store取得のポート（テスト時にモック差し替え）
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Config アプリケーション設定構造体
type Config struct {
	// Zoom API設定
	ZoomToken string

	// Google Calendar設定
	GoogleCredentials string
	CalendarID        string

	// 同期動作設定
	MaxDays                  int  // 何日先までのミーティングを同期対象にするか
	MaxPageSize              int  // Zoom APIの1ページあたりの取得件数
	RunOnceAndDie            bool // trueなら1サイクルで終了
	WorkSleepDurationSeconds int  // サイクル間のスリープ秒数

	// その他設定
	LogLevel string

	// AWS関連（Lambda環境でのみ使用）
	ssmClient SSMParameterGetter
}

// Load 環境に応じて設定を読み込み
func Load() (*Config, error) {
	// AWS Lambda環境かどうか判定
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return loadAWSConfig()
	}
	return loadLocalConfig()
}

// loadLocalConfig ローカル環境用の設定読み込み
func loadLocalConfig() (*Config, error) {
	// .envファイルを読み込み（存在する場合のみ）
	if err := godotenv.Load(); err != nil {
		// .envファイルが存在しない場合はエラーにしない
		fmt.Printf("Warning: .envファイルが見つかりません: %v\n", err)
	}

	cfg := &Config{
		ZoomToken:         getEnvOrDefault("ZOOM_TOKEN", ""),
		GoogleCredentials: getEnvOrDefault("GOOGLE_CREDENTIALS", ""),
		CalendarID:        getEnvOrDefault("CALENDAR_ID", DefaultCalendarID),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := cfg.loadSyncSettings(); err != nil {
		return nil, err
	}

	// 必須設定項目の確認
	if cfg.ZoomToken == "" {
		return nil, fmt.Errorf("ZOOM_TOKEN環境変数が設定されていません")
	}
	if cfg.GoogleCredentials == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS環境変数が設定されていません")
	}

	return cfg, nil
}

// loadAWSConfig AWS Lambda環境用の設定読み込み
func loadAWSConfig() (*Config, error) {
	// AWS設定を初期化
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %v", err)
	}

	cfg := &Config{
		CalendarID: getEnvOrDefault("CALENDAR_ID", DefaultCalendarID),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "INFO"),
		ssmClient:  ssm.NewFromConfig(awsCfg),
	}

	if err := cfg.loadSyncSettings(); err != nil {
		return nil, err
	}
	// Lambdaはスケジューラ起動なので常に1サイクルで終了
	cfg.RunOnceAndDie = true

	// Parameter Storeから機密情報を取得
	if err := cfg.loadFromParameterStore(); err != nil {
		return nil, fmt.Errorf("Parameter Storeからの設定読み込みに失敗しました: %v", err)
	}

	return cfg, nil
}

// loadSyncSettings 同期動作に関する設定を環境変数から読み込み
func (c *Config) loadSyncSettings() error {
	var err error
	if c.MaxDays, err = getEnvIntOrDefault("MAX_DAYS", DefaultMaxDays); err != nil {
		return err
	}
	if c.MaxPageSize, err = getEnvIntOrDefault("MAX_PAGE_SIZE", DefaultMaxPageSize); err != nil {
		return err
	}
	if c.RunOnceAndDie, err = getEnvBoolOrDefault("RUN_ONCE_AND_DIE", false); err != nil {
		return err
	}
	if c.WorkSleepDurationSeconds, err = getEnvIntOrDefault("WORK_SLEEP_DURATION_SECONDS", DefaultWorkSleepDuration); err != nil {
		return err
	}
	return nil
}

// loadFromParameterStore Parameter Storeから機密情報を読み込み
func (c *Config) loadFromParameterStore() error {
	ctx := context.TODO()

	// Zoomトークンを取得
	zoomTokenParam := getEnvOrDefault("ZOOM_TOKEN_PARAM", "/zoom-calendar-sync/zoom-token")
	zoomToken, err := c.getParameter(ctx, zoomTokenParam, true)
	if err != nil {
		return fmt.Errorf("Zoomトークンの取得に失敗しました: %v", err)
	}
	c.ZoomToken = zoomToken

	// Google認証情報を取得
	googleCredsParam := getEnvOrDefault("GOOGLE_CREDS_PARAM", "/zoom-calendar-sync/google-creds")
	googleCreds, err := c.getParameter(ctx, googleCredsParam, true)
	if err != nil {
		return fmt.Errorf("Google認証情報の取得に失敗しました: %v", err)
	}
	c.GoogleCredentials = googleCreds

	// カレンダーIDを取得（パラメータ名が未指定なら環境変数の値をそのまま使う）
	calendarIDParam := getEnvOrDefault("CALENDAR_ID_PARAM", "")
	if calendarIDParam != "" {
		calendarID, err := c.getParameter(ctx, calendarIDParam, false)
		if err != nil {
			return fmt.Errorf("カレンダーIDの取得に失敗しました: %v", err)
		}
		c.CalendarID = calendarID
	}

	return nil
}

// getParameter Parameter Storeから指定されたパラメータを取得
func (c *Config) getParameter(ctx context.Context, paramName string, withDecryption bool) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(withDecryption),
	}

	result, err := c.ssmClient.GetParameter(ctx, input)
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の取得に失敗しました: %v", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		return "", fmt.Errorf("パラメータ %s が空の値です", paramName)
	}

	return *result.Parameter.Value, nil
}

// LogValues 設定内容をログ出力する（機密情報は値を伏せる）
func (c *Config) LogValues(logf func(format string, args ...interface{})) {
	logf("CALENDAR_ID = %s", c.CalendarID)
	logf("MAX_DAYS = %d", c.MaxDays)
	logf("MAX_PAGE_SIZE = %d", c.MaxPageSize)
	logf("RUN_ONCE_AND_DIE = %t", c.RunOnceAndDie)
	logf("WORK_SLEEP_DURATION_SECONDS = %d", c.WorkSleepDurationSeconds)
	logf("LOG_LEVEL = %s", c.LogLevel)
	logf("ZOOM_TOKEN = %s", maskSecret(c.ZoomToken))
	logf("GOOGLE_CREDENTIALS = %s", maskSecret(c.GoogleCredentials))
}

// maskSecret 機密情報のログ出力用マスク
func maskSecret(value string) string {
	if value == "" {
		return "(未設定)"
	}
	return "(設定済み)"
}

// getEnvOrDefault 環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault 整数の環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s環境変数の解析に失敗しました: %v", key, err)
	}
	return parsed, nil
}

// getEnvBoolOrDefault 真偽値の環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s環境変数の解析に失敗しました: %v", key, err)
	}
	return parsed, nil
}
