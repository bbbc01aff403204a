package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veta-academy/backend/core/catalog"
	"github.com/veta-academy/backend/core/enrollment"
	"github.com/veta-academy/backend/core/lead"
	"github.com/veta-academy/backend/core/notification"
	"github.com/veta-academy/backend/core/platform"
	"github.com/veta-academy/backend/core/review"
	"github.com/veta-academy/backend/core/session"
	"github.com/veta-academy/backend/core/user"
	emailsvc "github.com/veta-academy/backend/services/email"
	inmemdb "github.com/veta-academy/backend/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server Server

	usrRepo    user.Repository
	courseRepo catalog.Repository
	areaRepo   platform.Repository

	usrSvc        user.Service
	sessionSvc    session.Service
	catalogSvc    catalog.Service
	platformSvc   platform.Service
	leadSvc       lead.Service
	reviewSvc     review.Service
	enrollmentSvc enrollment.Service
	notifHub      *notification.Hub
}

func setup(t *testing.T) *testApp {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock()
	app := &testApp{
		usrRepo:    inmemdb.NewUserRepository(db),
		courseRepo: inmemdb.NewCourseRepository(db),
		areaRepo:   inmemdb.NewPlatformRepository(db),
		notifHub:   notification.NewHub(),
	}
	app.usrSvc = user.NewServiceMock(app.usrRepo, mailSvc)
	app.sessionSvc = session.NewService(inmemdb.NewSessionRepository(db), app.usrSvc)
	app.catalogSvc = catalog.NewService(app.courseRepo)
	app.platformSvc = platform.NewService(app.areaRepo)
	app.leadSvc = lead.NewService(inmemdb.NewLeadRepository(db), mailSvc, app.notifHub.For(notification.AdminOwner))
	app.reviewSvc = review.NewService(inmemdb.NewReviewRepository(db), app.catalogSvc)
	app.enrollmentSvc = enrollment.NewService(inmemdb.NewEnrollmentRepository(db), app.catalogSvc, app.platformSvc)

	app.server = NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         testLogger{},
			UserSvc:        app.usrSvc,
			SessionSvc:     app.sessionSvc,
			CatalogSvc:     app.catalogSvc,
			PlatformSvc:    app.platformSvc,
			LeadSvc:        app.leadSvc,
			ReviewSvc:      app.reviewSvc,
			EnrollmentSvc:  app.enrollmentSvc,
			NotifHub:       app.notifHub,
		},
	)
	return app
}

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	deviceID string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func runTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			if tt.deviceID != "" {
				req.Header.Set("X-Device-ID", tt.deviceID)
			}
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func getToken(t *testing.T, usr user.User, deviceID ...string) string {
	var dev string
	if len(deviceID) > 0 {
		dev = deviceID[0]
	}
	claims := GetUserClaims(usr, dev)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	// lists compare order-insensitively; anything else is already settled
	l1, ok1 := j1.([]interface{})
	l2, ok2 := j2.([]interface{})
	if ok1 && ok2 {
		return assert.ElementsMatch(t, l1, l2), nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if tt.wantCode == 0 {
		tt.wantCode = http.StatusOK
	}
	if rec.Code != tt.wantCode {
		t.Errorf("%s: code = %d; want %d; body: %s", tt.name, rec.Code, tt.wantCode, rec.Body.String())
		return
	}
	if tt.wantData == nil {
		return
	}
	eq, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("%s: jsonBytesEqual() failed: %v", tt.name, err)
		return
	}
	if !eq {
		t.Errorf("%s: data = %s; want %s", tt.name, rec.Body.String(), tt.wantData)
	}
}
