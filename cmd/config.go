package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	AMQPURL    string

	DispatchAPIKey        string
	DispatchBaseURL       string
	DispatchWebhookSecret string

	OloAPIKey        string
	OloBaseURL       string
	OloWebhookSecret string

	UberClientID      string
	UberClientSecret  string
	UberWebhookSecret string
	UberBaseURL       string
	UberAuthURL       string
	UberScope         string
}
