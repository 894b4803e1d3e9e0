package ark

import "time"

const (
	Version                 = "0.1.0"
	DefaultBaseURL          = "https://ark.cn-beijing.volces.com/api/v3"
	ChatCompletionsEndpoint = "/chat/completions"
	DefaultTimeout          = 10 * time.Minute // same as the hosted SDK
	APIKeyEnv               = "ARK_API_KEY"
	BaseURLEnv              = "ARK_BASE_URL"
	ClientRequestIDHeader   = "X-Client-Request-Id"
	RoleUser                = "user"
	ContentTypeText         = "text"
	ContentTypeImageURL     = "image_url"
)
