// Package httpclient is the outbound HTTP client used to reach the model
// provider. It handles base URL resolution, default headers, API key
// placement, JSON bodies and status classification, and exposes a streaming
// variant whose body is handed to the caller unread.
//
//	client, _ := httpclient.New(httpclient.Config{
//	    BaseURL: "https://generativelanguage.googleapis.com/v1beta",
//	    Timeout: 60 * time.Second,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "models/gemini-2.5-flash:generateContent",
//	    Body:   payload,
//	    Key:    httpclient.QueryKey("key", apiKey),
//	})
//
// Retries, circuit breaking and rate limiting are deliberately absent: a
// failed upstream call is reported to the caller once.
package httpclient
