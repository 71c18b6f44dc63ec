// Пакет docstore — HTTP-клиент к сервису хранения файлов.
// Поддерживает TLS с кастомным CA (EM_CA_CERT_PATH).
// Операции: Upload (POST /api/v1/files), Download (GET /api/v1/files/{id}),
// Delete (DELETE /api/v1/files/{id}).
package docstore

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

// TokenProvider — функция, возвращающая JWT для авторизации запросов к docstore.
// Получает токен от Keycloak через Client Credentials flow.
type TokenProvider func(ctx context.Context) (string, error)

// UploadResult — ответ docstore на загрузку файла.
type UploadResult struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Client — HTTP-клиент к docstore.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokenProvider TokenProvider
	logger        *slog.Logger
}

// New создаёт docstore-клиент.
// baseURL — URL сервиса хранения (пустая строка — docstore не настроен).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
// tokenProvider — функция для получения JWT.
func New(baseURL, caCertPath string, tokenProvider TokenProvider, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: 60 * time.Second}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата docstore: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат docstore добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    httpClient,
		tokenProvider: tokenProvider,
		logger:        logger.With(slog.String("component", "docstore_client")),
	}, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}

// Configured сообщает, задан ли URL docstore.
// Без него endpoints вложений возвращают DOCSTORE_UNAVAILABLE.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// authorize добавляет Authorization header в запрос.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokenProvider == nil {
		return nil
	}
	token, err := c.tokenProvider(ctx)
	if err != nil {
		return fmt.Errorf("получение токена для docstore: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Upload загружает файл в docstore.
// POST /api/v1/files — multipart/form-data с полем file.
func (c *Client) Upload(ctx context.Context, filename, contentType string, content io.Reader) (*UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	// Пишем multipart в pipe, чтобы не буферизовать файл целиком
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/files", pr)
	if err != nil {
		return nil, fmt.Errorf("создание запроса Upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if contentType != "" {
		req.Header.Set("X-Content-Type", contentType)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос Upload к docstore: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("docstore Upload вернул статус %d: %s", resp.StatusCode, string(body))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("декодирование ответа Upload: %w", err)
	}

	c.logger.Debug("Файл загружен в docstore",
		slog.String("file_id", result.FileID),
		slog.Int64("size", result.Size),
	)

	return &result, nil
}

// Download скачивает файл из docstore.
// GET /api/v1/files/{id} — возвращает содержимое, content type и размер.
// Вызывающий обязан закрыть io.ReadCloser.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/files/"+fileID, nil)
	if err != nil {
		return nil, "", 0, fmt.Errorf("создание запроса Download: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, "", 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", 0, fmt.Errorf("запрос Download к docstore: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, "", 0, fmt.Errorf("docstore Download вернул статус %d: %s", resp.StatusCode, string(body))
	}

	return resp.Body, resp.Header.Get("Content-Type"), resp.ContentLength, nil
}

// Delete удаляет файл из docstore.
// DELETE /api/v1/files/{id}.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/files/"+fileID, nil)
	if err != nil {
		return fmt.Errorf("создание запроса Delete: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос Delete к docstore: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("docstore Delete вернул статус %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
