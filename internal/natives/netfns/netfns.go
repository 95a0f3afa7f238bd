// Package netfns implements the HTTP client leaf built-ins: synchronous
// get/post used directly from script code, in addition to the async
// spawn_http* primitives in internal/natives/asyncrt.
package netfns

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
)

const requestTimeout = 15 * time.Second

// Table returns the net native function set.
func Table() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"http_get":  httpGet,
		"http_post": httpPost,
	}
}

func httpGet(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("http_get: expected 1 argument, got %d", len(args))
	}
	url, ok := args[0].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("http_get: expected a String URL")
	}
	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Get(url.Value)
	if err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return bodyToResult(resp)
}

func httpPost(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("http_post: expected 2-3 arguments, got %d", len(args))
	}
	url, ok := args[0].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("http_post: expected a String URL")
	}
	body, ok := args[1].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("http_post: expected a String body")
	}
	contentType := "application/json"
	if len(args) == 3 {
		if ct, ok := args[2].(*evaluator.String); ok {
			contentType = ct.Value
		}
	}
	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Post(url.Value, contentType, strings.NewReader(body.Value))
	if err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	return bodyToResult(resp)
}

func bodyToResult(resp *http.Response) (evaluator.Value, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return evaluator.ErrOf(&evaluator.String{Value: err.Error()}), nil
	}
	if resp.StatusCode >= 400 {
		return evaluator.ErrOf(&evaluator.String{Value: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(b))}), nil
	}
	m := evaluator.NewMap()
	m.Set("status", &evaluator.Int{Value: int64(resp.StatusCode)})
	m.Set("body", &evaluator.String{Value: string(b)})
	return evaluator.OkOf(m), nil
}
