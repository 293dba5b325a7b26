package core

import "github.com/bytedance/sonic"

// envelope probes both error conventions seen across exchanges. Pointer
// fields distinguish an absent key from a zero value.
type envelope struct {
	Code    *int64 `json:"code"`
	Msg     string `json:"msg"`
	RetCode *int64 `json:"retCode"`
	RetMsg  string `json:"retMsg"`
}

// Classify inspects a decoded JSON body for exchange error markers and
// returns a *RequestError when one is found. Both envelope conventions are
// checked unconditionally, not only the one matching the exchange of the
// current call, so the classifier stays exchange-agnostic. Bodies that are
// arrays or scalars carry no envelope and classify as success.
func Classify(url string, body []byte) error {
	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Code != nil && env.Msg != "" {
		return &RequestError{URL: url, Code: *env.Code, Msg: env.Msg}
	}
	if env.RetCode != nil && *env.RetCode != 0 {
		return &RequestError{URL: url, Code: *env.RetCode, Msg: env.RetMsg}
	}
	return nil
}
