// Package gcloud builds the client options shared by the Google Cloud
// adapters (vision, speech-to-text, text-to-speech).
package gcloud

import (
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nadzzz/aigateway/internal/config"
)

// ClientOptions translates the google config section into client options.
// Credentials are passed explicitly; GOOGLE_APPLICATION_CREDENTIALS is only
// consulted by the SDK when no credentials file is configured.
func ClientOptions(cfg config.GoogleConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts,
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
		return opts
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	return opts
}
