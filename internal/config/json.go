package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for file-based
// configuration. Durations are accepted as strings like "1h" or "30s".
type StructuredJSONConfig struct {
	App struct {
		AccessTokenSecret  string   `json:"access_token_secret"`
		RefreshTokenSecret string   `json:"refresh_token_secret"`
		TokenIssuer        string   `json:"token_issuer"`
		AccessTokenTTL     Duration `json:"access_token_ttl"`
		RefreshTokenTTL    Duration `json:"refresh_token_ttl"`
		MinPasswordLength  int      `json:"min_password_length"`
		BcryptCost         int      `json:"bcrypt_cost"`
		Version            string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN              string   `json:"dsn"`
			Name             string   `json:"name"`
			OperationTimeout Duration `json:"operation_timeout"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		SecureCookies  bool     `json:"secure_cookies"`
	} `json:"server,omitempty"`

	Blob struct {
		UploadEndpoint string   `json:"upload_endpoint"`
		PrivateKey     string   `json:"private_key"`
		MaxUploadSize  int64    `json:"max_upload_size"`
		MaxFiles       int      `json:"max_files"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"blob,omitempty"`

	OAuth struct {
		Google struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
			CallbackURL  string `json:"callback_url"`
		} `json:"google,omitempty"`
	} `json:"oauth,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			AccessTokenSecret:  jsonCfg.App.AccessTokenSecret,
			RefreshTokenSecret: jsonCfg.App.RefreshTokenSecret,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			AccessTokenTTL:     time.Duration(jsonCfg.App.AccessTokenTTL),
			RefreshTokenTTL:    time.Duration(jsonCfg.App.RefreshTokenTTL),
			MinPasswordLength:  jsonCfg.App.MinPasswordLength,
			BcryptCost:         jsonCfg.App.BcryptCost,
			Version:            jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN:              jsonCfg.Storage.DB.DSN,
				Name:             jsonCfg.Storage.DB.Name,
				OperationTimeout: time.Duration(jsonCfg.Storage.DB.OperationTimeout),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			SecureCookies:  jsonCfg.Server.SecureCookies,
		},
		Blob: Blob{
			UploadEndpoint: jsonCfg.Blob.UploadEndpoint,
			PrivateKey:     jsonCfg.Blob.PrivateKey,
			MaxUploadSize:  jsonCfg.Blob.MaxUploadSize,
			MaxFiles:       jsonCfg.Blob.MaxFiles,
			RequestTimeout: time.Duration(jsonCfg.Blob.RequestTimeout),
		},
		OAuth: OAuth{
			Google: Google{
				ClientID:     jsonCfg.OAuth.Google.ClientID,
				ClientSecret: jsonCfg.OAuth.Google.ClientSecret,
				CallbackURL:  jsonCfg.OAuth.Google.CallbackURL,
			},
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		return errors.New("invalid duration")
	}
}
