package config

import (
	"encoding/json"
	"os"

	"github.com/photovault/photovault/internal/flagx"
	"github.com/photovault/photovault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config values untouched. timex.Duration lets
// intervals be written either as strings like "5m" or integer nanoseconds.
type JsonConfig struct {
	CacheDSN  *string `json:"cache_dsn"`
	ProxyBase *string `json:"proxy_base"`
	IndexBase *string `json:"index_base"`

	SyncInterval *timex.Duration `json:"sync_interval"`

	PublicGateways []string `json:"public_gateways"`

	SelfHostedAPI      *string `json:"selfhosted_api"`
	SelfHostedGateway  *string `json:"selfhosted_gateway"`
	SelfHostedUser     *string `json:"selfhosted_user"`
	SelfHostedPassword *string `json:"selfhosted_password"`

	PinataGateway      *string `json:"pinata_gateway"`
	PinataToken        *string `json:"pinata_token"`
	PinataGatewayToken *string `json:"pinata_gateway_token"`

	S3AccessKey *string `json:"s3_access_key"`
	S3SecretKey *string `json:"s3_secret_key"`
	S3Bucket    *string `json:"s3_bucket"`
	S3Region    *string `json:"s3_region"`
	S3Endpoint  *string `json:"s3_endpoint"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. No flag means no JSON is loaded. Read or unmarshal
// errors panic; startup config problems should be loud.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	overlay(&cfg.CacheDSN, jc.CacheDSN)
	overlay(&cfg.ProxyBase, jc.ProxyBase)
	overlay(&cfg.IndexBase, jc.IndexBase)
	if jc.SyncInterval != nil {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.PublicGateways != nil {
		cfg.PublicGateways = jc.PublicGateways
	}
	overlay(&cfg.SelfHostedAPI, jc.SelfHostedAPI)
	overlay(&cfg.SelfHostedGateway, jc.SelfHostedGateway)
	overlay(&cfg.SelfHostedUser, jc.SelfHostedUser)
	overlay(&cfg.SelfHostedPassword, jc.SelfHostedPassword)
	overlay(&cfg.PinataGateway, jc.PinataGateway)
	overlay(&cfg.PinataToken, jc.PinataToken)
	overlay(&cfg.PinataGatewayToken, jc.PinataGatewayToken)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3Endpoint, jc.S3Endpoint)
}
