package config

import "time"

// Токен идентичности живет 60 дней; отзыв до истечения срока не поддерживается.
const defaultTokenTTL = 60 * 24 * time.Hour

// JWTConfig содержит настройки для токенов и хэширования паролей.
// У секретного ключа намеренно нет значения по умолчанию: его отсутствие
// фатально при старте.
type JWTConfig struct {
	SecretKey  string `yaml:"secret_key" env:"COMMUNITY_JWT_SECRET_KEY"`
	TokenTTL   string `yaml:"token_ttl" env:"COMMUNITY_JWT_TOKEN_TTL" env-default:"1440h"`
	BCryptCost int    `yaml:"bcrypt_cost" env:"COMMUNITY_BCRYPT_COST" env-default:"10"`
}

// GetTokenTTL возвращает продолжительность времени жизни токена.
func (c *JWTConfig) GetTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return defaultTokenTTL
	}
	return duration
}
