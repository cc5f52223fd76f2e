package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

// LinkedinApp holds the credentials for one of the two LinkedIn OAuth app
// registrations. Personal posting and community management are separate
// developer products on LinkedIn, so each carries its own client id/secret.
type LinkedinApp struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       string
}

type Config struct {
	LinkedinPersonal   LinkedinApp
	LinkedinCommunity  LinkedinApp
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	R2                 R2

	LemonSqueezyAPIKey        string
	LemonSqueezyStoreID       string
	LemonSqueezyVariantID     string
	LemonSqueezySigningSecret string

	ResendAPIKey  string
	FeedbackEmail string

	SecretKey  string
	CookieName string
}

func LoadConfig() *Config {
	return &Config{
		LinkedinPersonal: LinkedinApp{
			ClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("LINKEDIN_REDIRECT_URI", ""),
			Scopes:       getEnv("LINKEDIN_SCOPES", "openid profile email w_member_social"),
		},
		LinkedinCommunity: LinkedinApp{
			ClientID:     getEnv("LINKEDIN_COMMUNITY_CLIENT_ID", ""),
			ClientSecret: getEnv("LINKEDIN_COMMUNITY_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("LINKEDIN_COMMUNITY_REDIRECT_URI", ""),
			Scopes:       getEnv("LINKEDIN_COMMUNITY_SCOPES", "r_organization_social w_organization_social rw_organization_admin"),
		},
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		LemonSqueezyAPIKey:        getEnv("LEMONSQUEEZY_API_KEY", ""),
		LemonSqueezyStoreID:       getEnv("LEMONSQUEEZY_STORE_ID", ""),
		LemonSqueezyVariantID:     getEnv("LEMONSQUEEZY_VARIANT_ID", ""),
		LemonSqueezySigningSecret: getEnv("LEMONSQUEEZY_SIGNING_SECRET", ""),
		ResendAPIKey:              getEnv("RESEND_API_KEY", ""),
		FeedbackEmail:             getEnv("FEEDBACK_EMAIL", ""),
		SecretKey:                 getEnv("SECRET_KEY", ""),
		CookieName:                getEnv("COOKIE_NAME", "linkedbud_session"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
