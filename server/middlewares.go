package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/torusresearch/bijson"
)

type contextKey string

const requestBody contextKey = "body"
const jrpcMethod contextKey = "method"

// maxBodySize bounds a request body.
const maxBodySize = 8 << 20

type jRPCRequest struct {
	Method string `json:"method"`
}

func setContextValue(r *http.Request, key contextKey, val interface{}) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), key, val))
}

func parseBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The body is read again by the JSON-RPC handler.
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
		if err != nil {
			log.WithError(err).Error("could not read request body")
			http.Error(w, "could not read request body", http.StatusBadRequest)
			return
		}
		if len(body) > maxBodySize {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		r = setContextValue(r, requestBody, body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func augmentRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var j jRPCRequest
		body, ok := r.Context().Value(requestBody).([]byte)
		if !ok || len(body) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		// Only the method name is decoded; bodies carry secret shares and
		// are never logged.
		err := bijson.Unmarshal(body, &j)
		if err != nil {
			log.WithError(err).Debug("could not read JRPC method from body")
			next.ServeHTTP(w, r)
			return
		}
		r = setContextValue(r, jrpcMethod, j.Method)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		fields := log.Fields{
			"RemoteAddr": r.RemoteAddr,
			"RequestURI": r.RequestURI,
			"duration":   time.Since(start).String(),
		}
		if methodStr, ok := r.Context().Value(jrpcMethod).(string); ok && methodStr != "" {
			fields["method"] = methodStr
		}
		log.WithFields(fields).Info("JRPC Method Requested")
	})
}
