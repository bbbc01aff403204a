package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/veta-academy/backend/core/platform"
	"github.com/veta-academy/backend/core/user"
	testutil "github.com/veta-academy/backend/tests"
)

func Test_enrollmentApi_enroll(t *testing.T) {
	app := setup(t)

	if err := app.platformSvc.SetLoyalty(platform.LoyaltyConfig{
		WelcomeBonus: 50,
		EarnRate:     0.1,
		Tiers: []platform.LoyaltyTier{
			{Name: "Bronce", MinPoints: 0},
			{Name: "Plata", MinPoints: 55},
			{Name: "Oro", MinPoints: 500},
		},
	}); err != nil {
		t.Fatalf("SetLoyalty() failed: %v", err)
	}

	student := testutil.CreateUser(t, app.usrRepo, "Hero", "hero", "hero@test.pe", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)
	course := testutil.CreateCourse(t, app.courseRepo, "Lixiviación de Oro", "Carlos Quispe", "metalurgia", "advanced", "8 horas", 120)

	body := marshallObj(t, EnrollRequest{CourseID: course.ID})

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/v1/enrollments", body: body,
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "unknown course", method: http.MethodPost, path: "/v1/enrollments",
			body: marshallObj(t, EnrollRequest{CourseID: "nope"}), token: token,
			wantCode: http.StatusNotFound,
		},
		{
			name: "enrolled", method: http.MethodPost, path: "/v1/enrollments", body: body,
			token: token, wantCode: http.StatusCreated,
		},
		{
			name: "double enrollment rejected", method: http.MethodPost, path: "/v1/enrollments", body: body,
			token: token, wantCode: http.StatusBadRequest,
		},
	}
	runTests(t, app, tests)

	// 12 points earned (120 * 0.1) plus the 50 point welcome bonus
	req, rec := newAuthRequest(http.MethodGet, "/v1/enrollments/loyalty", token)
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("loyalty code = %d; body: %s", rec.Code, rec.Body.String())
	}
	var res LoyaltyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling LoyaltyResponse: %v", err)
	}
	if res.Points != 62 {
		t.Errorf("points = %d; want 62", res.Points)
	}
	if res.Tier == nil || res.Tier.Name != "Plata" {
		t.Errorf("tier = %+v; want Plata", res.Tier)
	}

	// the student count was bumped
	got, err := app.catalogSvc.GetByID(course.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Students != 1 {
		t.Errorf("students = %d; want 1", got.Students)
	}

	// the student got a success toast
	if n := app.notifHub.For(student.ID).Len(); n != 1 {
		t.Errorf("notifications = %d; want 1", n)
	}
}
