// services/oracle.go - HTTP-backed AI Oracle
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPOracle talks to the external text-generation service. The wire
// shape is a thin JSON contract; the service behind it owns prompts and
// personas.
type HTTPOracle struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPOracle(baseURL, apiKey string) *HTTPOracle {
	return &HTTPOracle{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

type oracleEvaluateRequest struct {
	BotID       string `json:"bot_id"`
	ImageData   string `json:"image_data"`
	Description string `json:"description,omitempty"`
}

type oracleEvaluateResponse struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

type oracleGenerateRequest struct {
	BotID       string `json:"bot_id"`
	PostContent string `json:"post_content"`
	UserComment string `json:"user_comment,omitempty"`
}

type oracleGenerateResponse struct {
	Content string `json:"content"`
}

func (o *HTTPOracle) EvaluateDrawing(ctx context.Context, botID, imageData, description string) (int, string, error) {
	var resp oracleEvaluateResponse
	err := o.post(ctx, "/evaluate", oracleEvaluateRequest{
		BotID:       botID,
		ImageData:   imageData,
		Description: description,
	}, &resp)
	if err != nil {
		return 0, "", err
	}
	return resp.Score, resp.Comment, nil
}

func (o *HTTPOracle) GenerateComment(ctx context.Context, botID, postContent string) (string, error) {
	var resp oracleGenerateResponse
	err := o.post(ctx, "/comment", oracleGenerateRequest{
		BotID:       botID,
		PostContent: postContent,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (o *HTTPOracle) GenerateReply(ctx context.Context, botID, userComment, postContent string) (string, error) {
	var resp oracleGenerateResponse
	err := o.post(ctx, "/reply", oracleGenerateRequest{
		BotID:       botID,
		PostContent: postContent,
		UserComment: userComment,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (o *HTTPOracle) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle returned status %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
