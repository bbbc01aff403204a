package echoapi

import (
	"net/http"
	"testing"

	"github.com/veta-academy/backend/core/user"
	testutil "github.com/veta-academy/backend/tests"
)

func Test_platformApi_areas(t *testing.T) {
	app := setup(t)

	metalurgia := testutil.CreateArea(t, app.areaRepo, "Metalurgia", true)
	geologia := testutil.CreateArea(t, app.areaRepo, "Geología", false)
	admin := testutil.CreateUser(t, app.usrRepo, "Admin", "admin", "admin@test.pe", "", []string{user.RoleAdmin}, true)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "active areas only", path: "/v1/areas", wantData: marshallList(t, metalurgia)},
		{name: "retrieve by slug", path: "/v1/areas/metalurgia", wantData: marshallObj(t, metalurgia)},
		{name: "inactive area still addressable", path: "/v1/areas/geologia", wantData: marshallObj(t, geologia)},
		{name: "unknown area", path: "/v1/areas/quimica", wantCode: http.StatusNotFound},
		{
			name: "all areas requires admin", path: "/v1/areas/all",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "all areas", path: "/v1/areas/all", token: adminToken,
			wantData: marshallList(t, metalurgia, geologia),
		},
		{
			name: "duplicate slug rejected", method: http.MethodPost, path: "/v1/areas",
			body: []byte(`{"name": "Metalurgia"}`), token: adminToken, wantCode: http.StatusBadRequest,
		},
		{
			name: "create area", method: http.MethodPost, path: "/v1/areas",
			body: []byte(`{"name": "Minería Subterránea", "color": "#B45309"}`), token: adminToken,
			wantCode: http.StatusCreated,
		},
	}
	runTests(t, app, tests)

	// the new slug is derived from the accented name
	if _, err := app.platformSvc.GetAreaBySlug("mineria-subterranea"); err != nil {
		t.Errorf("GetAreaBySlug() failed: %v", err)
	}

	// update addresses the area by id
	runTests(t, app, []httpTest{
		{
			name: "activate area", method: http.MethodPut, path: "/v1/areas/" + geologia.ID,
			body: []byte(`{"is_active": true}`), token: adminToken,
		},
	})
	area, err := app.platformSvc.GetAreaByID(geologia.ID)
	if err != nil {
		t.Fatalf("GetAreaByID() failed: %v", err)
	}
	if !area.IsActive {
		t.Error("area not activated")
	}
}

func Test_platformApi_config(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, app.usrRepo, "Admin", "admin", "admin@test.pe", "", []string{user.RoleAdmin}, true)
	adminToken := getToken(t, admin)

	general := []byte(`{"site_name": "Veta", "contact_email": "hola@veta.pe", "contact_phone": "+51987654321", "currency": "PEN"}`)
	loyalty := []byte(`{"welcome_bonus": 50, "earn_rate": 0.1, "tiers": [{"name": "Bronce", "min_points": 0}]}`)

	tests := []httpTest{
		{name: "general unset", path: "/v1/config", wantCode: http.StatusBadRequest},
		{name: "status incomplete", path: "/v1/config/status", wantData: marshallObj(t, StatusResponse{Complete: false})},
		{
			name: "set requires admin", method: http.MethodPut, path: "/v1/config", body: general,
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "bad currency", method: http.MethodPut, path: "/v1/config", token: adminToken,
			body:     []byte(`{"site_name": "Veta", "contact_email": "hola@veta.pe", "currency": "SOLES"}`),
			wantCode: http.StatusBadRequest,
		},
		{name: "set general", method: http.MethodPut, path: "/v1/config", body: general, token: adminToken},
		{name: "set loyalty", method: http.MethodPut, path: "/v1/config/loyalty", body: loyalty, token: adminToken},
		{
			name: "loyalty needs a tier", method: http.MethodPut, path: "/v1/config/loyalty", token: adminToken,
			body: []byte(`{"welcome_bonus": 50, "earn_rate": 0.1, "tiers": []}`), wantCode: http.StatusBadRequest,
		},
	}
	runTests(t, app, tests)

	// still incomplete without an area
	runTests(t, app, []httpTest{
		{name: "status still incomplete", path: "/v1/config/status", wantData: marshallObj(t, StatusResponse{Complete: false})},
	})

	testutil.CreateArea(t, app.areaRepo, "Metalurgia", true)
	runTests(t, app, []httpTest{
		{name: "status complete", path: "/v1/config/status", wantData: marshallObj(t, StatusResponse{Complete: true})},
	})
}
