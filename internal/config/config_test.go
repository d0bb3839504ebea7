package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "teachers_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("REGISTER_STREAM_CODES", "BTech=42, MCA=74")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "teachers_test", cfg.MongoDB.Database)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, "5000", cfg.Server.Port)
	require.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	require.Equal(t, SequenceCounter, cfg.Register.Sequence)
	require.Equal(t, 10, cfg.Register.BcryptCost)
	require.True(t, cfg.Admin.IncludeTeachers)
	require.Equal(t, map[string]int{"BTech": 42, "MCA": 74}, cfg.Register.StreamCodes)
}

func TestLoadConfig_RejectsUnknownSequence(t *testing.T) {
	t.Setenv("REGISTER_SEQUENCE", "random")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestParseStreamCodes(t *testing.T) {
	codes, err := ParseStreamCodes("")
	require.NoError(t, err)
	require.Nil(t, codes)

	_, err = ParseStreamCodes("BTech")
	require.Error(t, err)

	_, err = ParseStreamCodes("BTech=420")
	require.Error(t, err)
}

func TestRedisAddr_Unconfigured(t *testing.T) {
	require.Equal(t, "", RedisConfig{}.Addr())
	require.Equal(t, "cache:6379", RedisConfig{Host: "cache"}.Addr())
}
