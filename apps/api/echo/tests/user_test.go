package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/highschool/scheduler/core/user"
	testutil "github.com/highschool/scheduler/tests"
)

func Test_userApi_login(t *testing.T) {
	e := setup(t)

	testutil.CreateUser(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test",
		"LePassword007", []string{user.RoleStudent}, true)
	testutil.CreateUser(t, e.usrRepo, "Gone Kid", "gonekid", "gone@school.test",
		"LePassword007", []string{user.RoleStudent}, false)

	tests := []httpTest{
		{
			name: "username + password", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "jamiep", "password": "LePassword007"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "email works too", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "jamie@school.test", "password": "LePassword007"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "jamiep", "password": "oops"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown user", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "nobody", "password": "LePassword007"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "deactivated account", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "gonekid", "password": "LePassword007"}`),
			wantCode: http.StatusForbidden,
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			e.app.ServeHTTP(rec, req)
			checkCode(t, tt.wantCode, rec)
		})
	}
}

func Test_userApi_tokenRefresh(t *testing.T) {
	e := setup(t)

	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)

	t.Run("anonymous is rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/users/token-refresh")
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusUnauthorized, rec)
	})
	t.Run("fresh token is issued", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/users/token-refresh", getToken(t, student))
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response failed: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token in the response")
		}
	})
}

func Test_userApi_query(t *testing.T) {
	e := setup(t)

	admin := e.createAdmin(t)
	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)
	teacher := testutil.CreateTeacher(t, e.usrRepo, "Morgan Lee", "morganl", "morgan@school.test", "math")

	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	path := func(params url.Values) string { return "/api/users?" + params.Encode() }

	tests := []httpTest{
		{
			name: "anonymous is rejected", method: http.MethodGet, path: "/api/users",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "student is forbidden", method: http.MethodGet, path: "/api/users",
			token: studentToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{
			name: "admin sees everyone", method: http.MethodGet, path: "/api/users",
			token: adminToken, wantCode: http.StatusOK,
			wantData: marchallList(t, admin, student, teacher),
		},
		{
			name: "role prefix filter", method: http.MethodGet,
			path:  path(url.Values{"role": {user.RoleTeacher}}),
			token: adminToken, wantCode: http.StatusOK,
			wantData: marchallList(t, teacher),
		},
		{
			name: "grade level filter", method: http.MethodGet,
			path:  path(url.Values{"grade_level": {"10"}}),
			token: adminToken, wantCode: http.StatusOK,
			wantData: marchallList(t, student),
		},
		{
			name: "search on name", method: http.MethodGet,
			path:  path(url.Values{"search": {"morgan"}}),
			token: adminToken, wantCode: http.StatusOK,
			wantData: marchallList(t, teacher),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_detail(t *testing.T) {
	e := setup(t)

	admin := e.createAdmin(t)
	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)
	other := testutil.CreateStudent(t, e.usrRepo, "Riley Cho", "rileyc", "riley@school.test", 10)

	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{
			name: "own record", method: http.MethodGet, path: "/api/users/" + student.ID,
			token: studentToken, wantCode: http.StatusOK, wantData: marchallObj(t, student),
		},
		{
			name: "someone else's record is hidden", method: http.MethodGet, path: "/api/users/" + other.ID,
			token: studentToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "admin reads any record", method: http.MethodGet, path: "/api/users/" + other.ID,
			token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, other),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("student cannot delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/users/"+student.ID, studentToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})
	t.Run("admin cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/users/"+admin.ID, adminToken)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})
}

func Test_userApi_register(t *testing.T) {
	e := setup(t)

	admin := e.createAdmin(t)
	adminToken := getToken(t, admin)

	t.Run("admin registers a student", func(t *testing.T) {
		body := []byte(`{
			"name": "New Kid",
			"username": "newkid01",
			"email": "newkid@school.test",
			"password": "S0me-Str0ng-Pwd!",
			"password_confirm": "S0me-Str0ng-Pwd!",
			"roles": ["student:"],
			"grade_level": 9
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/users/register", adminToken, body)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		body := []byte(`{
			"name": "Copy Cat",
			"username": "newkid01",
			"email": "copycat@school.test",
			"password": "S0me-Str0ng-Pwd!",
			"password_confirm": "S0me-Str0ng-Pwd!"
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/users/register", adminToken, body)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusBadRequest, rec)
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		body := []byte(`{
			"name": "Weak One",
			"username": "weakone1",
			"email": "weak@school.test",
			"password": "password",
			"password_confirm": "password"
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/users/register", adminToken, body)
		e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusBadRequest, rec)
	})
}
