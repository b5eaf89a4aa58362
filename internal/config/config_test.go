package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSSMClient は SSMParameterGetter のテスト用モック
type MockSSMClient struct {
	mock.Mock
}

func (m *MockSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ssm.GetParameterOutput), args.Error(1)
}

// --- getEnvOrDefault テスト ---

func TestGetEnvOrDefault_WithValue(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "test-value")
	result := getEnvOrDefault("TEST_ENV_KEY", "default")
	assert.Equal(t, "test-value", result)
}

func TestGetEnvOrDefault_WithDefault(t *testing.T) {
	result := getEnvOrDefault("NONEXISTENT_KEY_FOR_TEST_12345", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestGetEnvOrDefault_TrimsWhitespace(t *testing.T) {
	t.Setenv("TEST_ENV_WHITESPACE", "  trimmed  ")
	result := getEnvOrDefault("TEST_ENV_WHITESPACE", "default")
	assert.Equal(t, "trimmed", result)
}

// --- getEnvIntOrDefault / getEnvBoolOrDefault テスト ---

func TestGetEnvIntOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "42")
	result, err := getEnvIntOrDefault("TEST_ENV_INT", 7)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestGetEnvIntOrDefault_Default(t *testing.T) {
	result, err := getEnvIntOrDefault("NONEXISTENT_INT_KEY_12345", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, result)
}

func TestGetEnvIntOrDefault_Invalid(t *testing.T) {
	t.Setenv("TEST_ENV_INT_BAD", "ninety")
	_, err := getEnvIntOrDefault("TEST_ENV_INT_BAD", 7)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_ENV_INT_BAD環境変数の解析に失敗しました")
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_BOOL", "true")
	result, err := getEnvBoolOrDefault("TEST_ENV_BOOL", false)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestGetEnvBoolOrDefault_Invalid(t *testing.T) {
	t.Setenv("TEST_ENV_BOOL_BAD", "yes please")
	_, err := getEnvBoolOrDefault("TEST_ENV_BOOL_BAD", false)
	assert.Error(t, err)
}

// --- loadLocalConfig テスト ---

func TestLoadLocalConfig_MissingRequired(t *testing.T) {
	// 必須環境変数が未設定の状態をシミュレート
	t.Setenv("ZOOM_TOKEN", "")
	t.Setenv("GOOGLE_CREDENTIALS", "")

	_, err := loadLocalConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "環境変数が設定されていません")
}

func TestLoadLocalConfig_Defaults(t *testing.T) {
	t.Setenv("ZOOM_TOKEN", "zoom-token-value")
	t.Setenv("GOOGLE_CREDENTIALS", `{"type":"service_account"}`)
	t.Setenv("CALENDAR_ID", "")
	t.Setenv("MAX_DAYS", "")
	t.Setenv("MAX_PAGE_SIZE", "")
	t.Setenv("RUN_ONCE_AND_DIE", "")
	t.Setenv("WORK_SLEEP_DURATION_SECONDS", "")

	cfg, err := loadLocalConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultCalendarID, cfg.CalendarID)
	assert.Equal(t, DefaultMaxDays, cfg.MaxDays)
	assert.Equal(t, DefaultMaxPageSize, cfg.MaxPageSize)
	assert.False(t, cfg.RunOnceAndDie)
	assert.Equal(t, DefaultWorkSleepDuration, cfg.WorkSleepDurationSeconds)
}

func TestLoadLocalConfig_Overrides(t *testing.T) {
	t.Setenv("ZOOM_TOKEN", "zoom-token-value")
	t.Setenv("GOOGLE_CREDENTIALS", `{"type":"service_account"}`)
	t.Setenv("CALENDAR_ID", "team@group.calendar.google.com")
	t.Setenv("MAX_DAYS", "30")
	t.Setenv("MAX_PAGE_SIZE", "50")
	t.Setenv("RUN_ONCE_AND_DIE", "true")
	t.Setenv("WORK_SLEEP_DURATION_SECONDS", "300")

	cfg, err := loadLocalConfig()
	require.NoError(t, err)
	assert.Equal(t, "team@group.calendar.google.com", cfg.CalendarID)
	assert.Equal(t, 30, cfg.MaxDays)
	assert.Equal(t, 50, cfg.MaxPageSize)
	assert.True(t, cfg.RunOnceAndDie)
	assert.Equal(t, 300, cfg.WorkSleepDurationSeconds)
}

// --- getParameter テスト（モック使用） ---

func TestGetParameter_Success(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	output := &ssm.GetParameterOutput{
		Parameter: &types.Parameter{
			Value: aws.String("test-value"),
		},
	}

	mockSSM.On("GetParameter", mock.Anything, mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == "/test/param" && *input.WithDecryption == true
	})).Return(output, nil)

	result, err := cfg.getParameter(context.Background(), "/test/param", true)
	require.NoError(t, err)
	assert.Equal(t, "test-value", result)
	mockSSM.AssertExpectations(t)
}

func TestGetParameter_EmptyValue(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	output := &ssm.GetParameterOutput{
		Parameter: &types.Parameter{
			Value: aws.String(""),
		},
	}

	mockSSM.On("GetParameter", mock.Anything, mock.Anything).Return(output, nil)

	_, err := cfg.getParameter(context.Background(), "/test/param", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "空の値です")
}

func TestGetParameter_APIError(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	mockSSM.On("GetParameter", mock.Anything, mock.Anything).Return(nil, errors.New("SSM API error"))

	_, err := cfg.getParameter(context.Background(), "/test/param", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "パラメータ /test/param の取得に失敗しました")
	mockSSM.AssertExpectations(t)
}

func TestLoadFromParameterStore(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM, CalendarID: DefaultCalendarID}

	// デフォルトのパラメータ名を使用させるため環境変数をクリア
	t.Setenv("ZOOM_TOKEN_PARAM", "")
	t.Setenv("GOOGLE_CREDS_PARAM", "")
	t.Setenv("CALENDAR_ID_PARAM", "")

	mockSSM.On("GetParameter", mock.Anything, mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == "/zoom-calendar-sync/zoom-token"
	})).Return(&ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("zoom-token-value")},
	}, nil)

	mockSSM.On("GetParameter", mock.Anything, mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == "/zoom-calendar-sync/google-creds"
	})).Return(&ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String(`{"type":"service_account"}`)},
	}, nil)

	err := cfg.loadFromParameterStore()
	require.NoError(t, err)
	assert.Equal(t, "zoom-token-value", cfg.ZoomToken)
	assert.Equal(t, `{"type":"service_account"}`, cfg.GoogleCredentials)
	// CALENDAR_ID_PARAM 未指定なら環境変数由来の値を保持する
	assert.Equal(t, DefaultCalendarID, cfg.CalendarID)
	mockSSM.AssertExpectations(t)
}
