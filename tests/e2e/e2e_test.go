package e2e

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"webapp/internal/database"
	"webapp/internal/domain"
	"webapp/internal/mailer"
	"webapp/internal/middleware"
	"webapp/internal/modules/health"
	"webapp/internal/modules/image"
	"webapp/internal/modules/user"
	"webapp/internal/pkg/response"
	"webapp/internal/repository"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 64)...)

// memStorage is an in-memory ObjectStorage for the suite.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "https://test-bucket.s3.test/" + key, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	store      *memStorage
	dispatcher *mailer.Dispatcher
}

func setupTestSuite(t *testing.T, verifyEnabled bool) *E2ETestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate")

	store := newMemStorage()
	dispatcher := mailer.NewDispatcher(mailer.NewDevConsoleMailer(), 8)
	t.Cleanup(dispatcher.Close)

	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db)

	userService := user.NewService(userRepo, dispatcher, "http://localhost:8080", verifyEnabled, 15*time.Minute)
	userHandler := user.NewHandler(userService)

	imageService := image.NewService(imageRepo, store)
	imageHandler := image.NewHandler(imageService)

	healthHandler := health.NewHandler(db)

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.Empty(c, http.StatusMethodNotAllowed)
	})
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/healthz/") {
			response.Empty(c, http.StatusBadRequest)
			return
		}
		response.Empty(c, http.StatusNotFound)
	})

	user.RegisterRoutes(r, userHandler, userRepo, verifyEnabled)
	image.RegisterRoutes(r, imageHandler, userRepo, verifyEnabled)
	health.RegisterRoutes(r, healthHandler)

	return &E2ETestSuite{router: r, db: db, store: store, dispatcher: dispatcher}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, basicCreds string) *httptest.ResponseRecorder {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if basicCreds != "" {
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(basicCreds)))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *E2ETestSuite) uploadPic(filename string, content []byte, basicCreds string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, _ := mw.CreateFormFile("profilePic", filename)
	_, _ = fw.Write(content)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/user/self/pic", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(basicCreds)))

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *E2ETestSuite) userCount(t *testing.T, email string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error)
	return count
}

func registerPayload() map[string]string {
	return map[string]string{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"password":  "pass1234",
	}
}

func TestRegister_MissingFieldsRejected(t *testing.T) {
	s := setupTestSuite(t, false)

	for _, missing := range []string{"firstName", "lastName", "email", "password"} {
		payload := registerPayload()
		delete(payload, missing)

		w := s.makeRequest(http.MethodPost, "/v1/user", payload, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "missing %s", missing)
	}
	assert.EqualValues(t, 0, s.userCount(t, "jane@example.com"), "no account persisted")
}

func TestRegister_UnknownFieldRejected(t *testing.T) {
	s := setupTestSuite(t, false)

	payload := registerPayload()
	payload["role"] = "admin"

	w := s.makeRequest(http.MethodPost, "/v1/user", payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 0, s.userCount(t, "jane@example.com"))
}

func TestRegister_QueryParamsRejected(t *testing.T) {
	s := setupTestSuite(t, false)

	w := s.makeRequest(http.MethodPost, "/v1/user?debug=1", registerPayload(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := setupTestSuite(t, false)

	w := s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 1, s.userCount(t, "jane@example.com"))
}

func TestRegister_ThenGetSelf(t *testing.T) {
	s := setupTestSuite(t, false)

	w := s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "jane@example.com", created["email"])
	assert.NotEmpty(t, created["id"])
	assert.NotContains(t, w.Body.String(), "password")

	w = s.makeRequest(http.MethodGet, "/v1/user/self", nil, "jane@example.com:pass1234")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "jane@example.com", fetched["email"])
	assert.Equal(t, created["id"], fetched["id"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetSelf_BadCredentials(t *testing.T) {
	s := setupTestSuite(t, false)

	w := s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusUnauthorized,
		s.makeRequest(http.MethodGet, "/v1/user/self", nil, "jane@example.com:wrong").Code)
	assert.Equal(t, http.StatusUnauthorized,
		s.makeRequest(http.MethodGet, "/v1/user/self", nil, "").Code)
}

func TestUpdate_PasswordRotation(t *testing.T) {
	s := setupTestSuite(t, false)

	require.Equal(t, http.StatusCreated,
		s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "").Code)

	w := s.makeRequest(http.MethodPut, "/v1/user/self", map[string]string{
		"firstName": "Janet",
		"lastName":  "Doe",
		"password":  "newpass99",
	}, "jane@example.com:pass1234")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	// old password rejected, new one accepted
	assert.Equal(t, http.StatusUnauthorized,
		s.makeRequest(http.MethodGet, "/v1/user/self", nil, "jane@example.com:pass1234").Code)

	w = s.makeRequest(http.MethodGet, "/v1/user/self", nil, "jane@example.com:newpass99")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Janet")
}

func TestUpdate_UnknownFieldRejected(t *testing.T) {
	s := setupTestSuite(t, false)

	require.Equal(t, http.StatusCreated,
		s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "").Code)

	w := s.makeRequest(http.MethodPut, "/v1/user/self", map[string]string{
		"firstName": "Janet",
		"lastName":  "Doe",
		"password":  "newpass99",
		"email":     "other@example.com",
	}, "jane@example.com:pass1234")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s := setupTestSuite(t, false)

	w := s.makeRequest(http.MethodDelete, "/v1/user/self", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))

	w = s.makeRequest(http.MethodDelete, "/v1/user", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPic_UploadFetchDelete(t *testing.T) {
	s := setupTestSuite(t, false)

	require.Equal(t, http.StatusCreated,
		s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "").Code)

	w := s.uploadPic("avatar.png", pngBytes, "jane@example.com:pass1234")
	require.Equal(t, http.StatusCreated, w.Code)

	var uploaded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	assert.Equal(t, "avatar.png", uploaded["file_name"])
	assert.NotEmpty(t, uploaded["url"])
	assert.Equal(t, 1, s.store.count())

	w = s.makeRequest(http.MethodGet, "/v1/user/self/pic", nil, "jane@example.com:pass1234")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, uploaded["file_name"], fetched["file_name"])
	assert.Equal(t, uploaded["url"], fetched["url"])
	assert.Equal(t, uploaded["user_id"], fetched["user_id"])

	w = s.makeRequest(http.MethodDelete, "/v1/user/self/pic", nil, "jane@example.com:pass1234")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, s.store.count())

	w = s.makeRequest(http.MethodGet, "/v1/user/self/pic", nil, "jane@example.com:pass1234")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPic_NonImageRejected(t *testing.T) {
	s := setupTestSuite(t, false)

	require.Equal(t, http.StatusCreated,
		s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "").Code)

	w := s.uploadPic("notes.txt", []byte("plain text, definitely not a picture"), "jane@example.com:pass1234")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.store.count(), "no object written")

	w = s.makeRequest(http.MethodGet, "/v1/user/self/pic", nil, "jane@example.com:pass1234")
	assert.Equal(t, http.StatusNotFound, w.Code, "no metadata written")
}

func TestPic_MissingFileRejected(t *testing.T) {
	s := setupTestSuite(t, false)

	require.Equal(t, http.StatusCreated,
		s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "").Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/user/self/pic", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("jane@example.com:pass1234")))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPic_ReplacedOnSecondUpload(t *testing.T) {
	s := setupTestSuite(t, false)

	require.Equal(t, http.StatusCreated,
		s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "").Code)

	require.Equal(t, http.StatusCreated,
		s.uploadPic("one.png", pngBytes, "jane@example.com:pass1234").Code)
	require.Equal(t, http.StatusCreated,
		s.uploadPic("two.png", pngBytes, "jane@example.com:pass1234").Code)

	assert.Equal(t, 1, s.store.count(), "replaced object removed from storage")

	w := s.makeRequest(http.MethodGet, "/v1/user/self/pic", nil, "jane@example.com:pass1234")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "two.png")
}

func TestVerification_GatesAndFlow(t *testing.T) {
	s := setupTestSuite(t, true)

	w := s.makeRequest(http.MethodPost, "/v1/user", registerPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	// reads are allowed, mutations are gated
	assert.Equal(t, http.StatusOK,
		s.makeRequest(http.MethodGet, "/v1/user/self", nil, "jane@example.com:pass1234").Code)
	assert.Equal(t, http.StatusForbidden,
		s.makeRequest(http.MethodPut, "/v1/user/self", map[string]string{
			"firstName": "Janet", "lastName": "Doe", "password": "newpass99",
		}, "jane@example.com:pass1234").Code)
	assert.Equal(t, http.StatusForbidden,
		s.uploadPic("avatar.png", pngBytes, "jane@example.com:pass1234").Code)

	var stored domain.User
	require.NoError(t, s.db.Where("email = ?", "jane@example.com").First(&stored).Error)
	require.False(t, stored.Verified)
	require.NotNil(t, stored.VerificationToken)

	// wrong token rejected
	w = s.makeRequest(http.MethodGet,
		fmt.Sprintf("/verify?email=%s&token=%s", "jane@example.com", "bogus"), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing params rejected
	assert.Equal(t, http.StatusBadRequest,
		s.makeRequest(http.MethodGet, "/verify?email=jane@example.com", nil, "").Code)

	// correct token verifies
	w = s.makeRequest(http.MethodGet,
		fmt.Sprintf("/verify?email=%s&token=%s", "jane@example.com", *stored.VerificationToken), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// reload into a fresh struct: scanning NULL columns into an
	// already-populated one leaves the old pointer values behind
	var verified domain.User
	require.NoError(t, s.db.Where("email = ?", "jane@example.com").First(&verified).Error)
	assert.True(t, verified.Verified)
	assert.Nil(t, verified.VerificationToken)
	assert.Nil(t, verified.TokenExpiry)

	// token is one-time
	w = s.makeRequest(http.MethodGet,
		fmt.Sprintf("/verify?email=%s&token=%s", "jane@example.com", "whatever"), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// gate now passes
	assert.Equal(t, http.StatusNoContent,
		s.makeRequest(http.MethodPut, "/v1/user/self", map[string]string{
			"firstName": "Janet", "lastName": "Doe", "password": "newpass99",
		}, "jane@example.com:pass1234").Code)
}

func TestVerification_PlusAddressedEmail(t *testing.T) {
	s := setupTestSuite(t, true)

	payload := registerPayload()
	payload["email"] = "jane+tag@example.com"
	require.Equal(t, http.StatusCreated,
		s.makeRequest(http.MethodPost, "/v1/user", payload, "").Code)

	var stored domain.User
	require.NoError(t, s.db.Where("email = ?", "jane+tag@example.com").First(&stored).Error)
	require.NotNil(t, stored.VerificationToken)

	// follow the same link the email would carry
	link := mailer.VerificationLink("http://localhost:8080", stored.Email, *stored.VerificationToken)
	u, err := url.Parse(link)
	require.NoError(t, err)

	w := s.makeRequest(http.MethodGet, u.RequestURI(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var verified domain.User
	require.NoError(t, s.db.Where("email = ?", "jane+tag@example.com").First(&verified).Error)
	assert.True(t, verified.Verified)
}

func TestHealthz(t *testing.T) {
	s := setupTestSuite(t, false)

	w := s.makeRequest(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))

	// query string rejected
	assert.Equal(t, http.StatusBadRequest,
		s.makeRequest(http.MethodGet, "/healthz?probe=1", nil, "").Code)

	// body rejected
	assert.Equal(t, http.StatusBadRequest,
		s.makeRequest(http.MethodGet, "/healthz", map[string]string{"x": "y"}, "").Code)

	// wrong methods
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead} {
		w := s.makeRequest(method, "/healthz", nil, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "method %s", method)
		assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	}

	// path params rejected
	assert.Equal(t, http.StatusBadRequest,
		s.makeRequest(http.MethodGet, "/healthz/extra", nil, "").Code)
}

func TestHealthz_StoreUnreachable(t *testing.T) {
	s := setupTestSuite(t, false)

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := s.makeRequest(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
