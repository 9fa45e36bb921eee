package cafe_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/app/cafe"
	"github.com/dmitrymomot/cafe/core/auth"
	"github.com/dmitrymomot/cafe/core/token"
	"github.com/dmitrymomot/cafe/pkg/cities"
)

func TestLogin(t *testing.T) {
	t.Run("signs in and shows the profile", func(t *testing.T) {
		var got auth.LoginData
		u := newUpstream(t, func(mux *http.ServeMux) {
			profileRoute(mux)
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "csrf", r.Header.Get(token.CSRFHeader))
				assert.Empty(t, r.Header.Get("Authorization"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				writeJSON(w, http.StatusOK, token.Pair{AccessToken: "a1", RefreshToken: "r1"})
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/auth/login", url.Values{
			"entity":   {"۰۹۱۲ ۳۴۵ ۶۷۸۹"},
			"password": {"secret"},
		})
		require.Equal(t, http.StatusSeeOther, resp.status)
		assert.Equal(t, "/page", resp.header.Get("Location"))
		assert.Equal(t, auth.LoginData{Entity: "09123456789", Password: "secret"}, got)

		page := s.get(t, "/page?tab=profile")
		require.Equal(t, http.StatusOK, page.status)
		assert.Contains(t, page.body, "Sara Ahmadi")
		assert.Contains(t, page.body, "0912 345 6789")
		assert.Contains(t, page.body, "با موفقیت وارد شدید.")
		assert.Contains(t, page.body, `action="/auth/logout"`)

		// The flash notice is shown once.
		again := s.get(t, "/page")
		assert.NotContains(t, again.body, "با موفقیت وارد شدید.")

		// Signed-in visitors skip the login form.
		login := s.get(t, "/auth/login")
		assert.Equal(t, http.StatusFound, login.status)
		assert.Equal(t, "/page", login.header.Get("Location"))
	})

	t.Run("honours returnUrl", func(t *testing.T) {
		s := newSite(t, newUpstream(t, loginRoutes))

		resp := s.post(t, "/auth/login", url.Values{
			"entity":    {"09123456789"},
			"password":  {"secret"},
			"returnUrl": {"/page?tab=profile"},
		})
		require.Equal(t, http.StatusSeeOther, resp.status)
		assert.Equal(t, "/page?tab=profile", resp.header.Get("Location"))
	})

	t.Run("rejects foreign returnUrl", func(t *testing.T) {
		s := newSite(t, newUpstream(t, loginRoutes))

		resp := s.post(t, "/auth/login", url.Values{
			"entity":    {"09123456789"},
			"password":  {"secret"},
			"returnUrl": {"https://evil.example/"},
		})
		require.Equal(t, http.StatusSeeOther, resp.status)
		assert.Equal(t, "/page", resp.header.Get("Location"))
	})

	t.Run("validation errors", func(t *testing.T) {
		s := newSite(t, newUpstream(t, nil))

		resp := s.post(t, "/auth/login", url.Values{"entity": {"  "}})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Contains(t, resp.body, "این فیلد الزامی است.")
		assert.Contains(t, resp.body, `aria-invalid="true"`)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusUnauthorized, "Invalid credentials")
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/auth/login", url.Values{"entity": {"09123456789"}, "password": {"wrong"}})
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Contains(t, resp.body, "شماره موبایل یا رمز عبور اشتباه است.")
		assert.Contains(t, resp.body, `value="09123456789"`)
		assert.NotContains(t, resp.body, "wrong")
	})

	t.Run("upstream failure", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusInternalServerError, "boom")
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/auth/login", url.Values{"entity": {"09123456789"}, "password": {"secret"}})
		assert.Equal(t, http.StatusBadGateway, resp.status)
		assert.Contains(t, resp.body, "سرویس در حال حاضر در دسترس نیست.")
	})

	t.Run("rate limited", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusUnauthorized, "Invalid credentials")
			})
		})
		s := newSite(t, u, func(cfg *cafe.Config) {
			cfg.RateLimit.Capacity = 2
		})

		form := url.Values{"entity": {"09123456789"}, "password": {"wrong"}}
		s.post(t, "/auth/login", form)
		s.post(t, "/auth/login", form)
		resp := s.post(t, "/auth/login", form)
		assert.Equal(t, http.StatusTooManyRequests, resp.status)
		assert.Contains(t, resp.body, "تلاش‌ها بیش از حد مجاز است.")
		assert.Equal(t, "0", resp.header.Get("X-RateLimit-Remaining"))
	})
}

func TestRememberMe(t *testing.T) {
	t.Run("persistent refresh cookie", func(t *testing.T) {
		s := newSite(t, newUpstream(t, loginRoutes))

		resp := s.post(t, "/auth/login", url.Values{
			"entity":     {"09123456789"},
			"password":   {"secret"},
			"rememberMe": {"true"},
		})
		require.Equal(t, http.StatusSeeOther, resp.status)

		c := cookieNamed(resp.cookies, "cafe_refresh")
		require.NotNil(t, c)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, 30*24*60*60, c.MaxAge)
		assert.NotContains(t, c.Value, "r1")
	})

	t.Run("session refresh cookie", func(t *testing.T) {
		s := newSite(t, newUpstream(t, loginRoutes))

		resp := s.post(t, "/auth/login", url.Values{"entity": {"09123456789"}, "password": {"secret"}})
		require.Equal(t, http.StatusSeeOther, resp.status)

		c := cookieNamed(resp.cookies, "cafe_refresh")
		require.NotNil(t, c)
		assert.Zero(t, c.MaxAge)
	})

	t.Run("refresh token signs a new browser in", func(t *testing.T) {
		var refreshed atomic.Int32
		u := newUpstream(t, func(mux *http.ServeMux) {
			loginRoutes(mux)
			mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				if body["refresh_token"] != "r1" {
					writeError(w, http.StatusUnauthorized, "Invalid refresh token")
					return
				}
				refreshed.Add(1)
				writeJSON(w, http.StatusOK, token.Pair{AccessToken: "a1", RefreshToken: "r1"})
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/auth/login", url.Values{
			"entity":     {"09123456789"},
			"password":   {"secret"},
			"rememberMe": {"true"},
		})
		require.Equal(t, http.StatusSeeOther, resp.status)
		refresh := cookieNamed(resp.cookies, "cafe_refresh")
		require.NotNil(t, refresh)

		// A restarted browser keeps only the persistent cookie.
		s.client = newBrowser(t)
		req, err := http.NewRequest(http.MethodGet, s.srv.URL+"/page?tab=profile", nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: refresh.Name, Value: refresh.Value})

		page := s.do(t, req)
		require.Equal(t, http.StatusOK, page.status)
		assert.Contains(t, page.body, "Sara Ahmadi")
		assert.EqualValues(t, 1, refreshed.Load())

		again := cookieNamed(page.cookies, "cafe_refresh")
		if again != nil {
			assert.Positive(t, again.MaxAge)
		}
	})
}

func TestCafePage(t *testing.T) {
	t.Run("requires sign in", func(t *testing.T) {
		s := newSite(t, newUpstream(t, nil))

		resp := s.get(t, "/page?tab=orders")
		assert.Equal(t, http.StatusFound, resp.status)
		assert.Equal(t, "/auth/login?returnUrl=%2Fpage%3Ftab%3Dorders", resp.header.Get("Location"))
	})

	t.Run("tabs", func(t *testing.T) {
		var profileCalls atomic.Int32
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, token.Pair{AccessToken: "a1", RefreshToken: "r1"})
			})
			mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
				profileCalls.Add(1)
				writeJSON(w, http.StatusOK, map[string]any{"id": 7, "full_name": "Sara Ahmadi", "phone": "09123456789"})
			})
		})
		s := newSite(t, u)
		signIn(t, s)

		menu := s.get(t, "/page?tab=unknown")
		require.Equal(t, http.StatusOK, menu.status)
		assert.Contains(t, menu.body, "اسپرسو")

		orders := s.get(t, "/page?tab=orders")
		require.Equal(t, http.StatusOK, orders.status)
		assert.Contains(t, orders.body, "هنوز سفارشی ثبت نکرده‌اید.")
		assert.Zero(t, profileCalls.Load())

		profile := s.get(t, "/page?tab=profile")
		require.Equal(t, http.StatusOK, profile.status)
		assert.Contains(t, profile.body, "Sara Ahmadi")
		assert.EqualValues(t, 1, profileCalls.Load())
	})

	t.Run("rejected token", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, token.Pair{AccessToken: "stale", RefreshToken: "r1"})
			})
			mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
			})
		})
		s := newSite(t, u)
		signIn(t, s)

		resp := s.get(t, "/page?tab=profile")
		assert.Equal(t, http.StatusFound, resp.status)
		assert.Equal(t, "/auth/login?returnUrl=%2Fpage%3Ftab%3Dprofile", resp.header.Get("Location"))
	})

	t.Run("profile unavailable", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, token.Pair{AccessToken: "a1", RefreshToken: "r1"})
			})
			mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusServiceUnavailable, "down")
			})
		})
		s := newSite(t, u)
		signIn(t, s)

		resp := s.get(t, "/page?tab=profile")
		require.Equal(t, http.StatusOK, resp.status)
		assert.Contains(t, resp.body, "بارگذاری نمایه ممکن نشد.")
	})
}

func TestLogout(t *testing.T) {
	var loggedOut atomic.Int32
	u := newUpstream(t, func(mux *http.ServeMux) {
		loginRoutes(mux)
		mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "csrf", r.Header.Get(token.CSRFHeader))
			loggedOut.Add(1)
			writeJSON(w, http.StatusOK, map[string]string{})
		})
	})
	s := newSite(t, u)
	signIn(t, s)

	resp := s.post(t, "/auth/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.status)
	assert.Equal(t, "/auth/login", resp.header.Get("Location"))
	assert.EqualValues(t, 1, loggedOut.Load())

	c := cookieNamed(resp.cookies, "cafe_refresh")
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)

	page := s.get(t, "/page")
	assert.Equal(t, http.StatusFound, page.status)

	login := s.get(t, "/auth/login")
	assert.Contains(t, login.body, "از حساب خود خارج شدید.")
}

func TestLogout_UpstreamFailure(t *testing.T) {
	u := newUpstream(t, func(mux *http.ServeMux) {
		loginRoutes(mux)
		mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusInternalServerError, "boom")
		})
	})
	s := newSite(t, u)
	signIn(t, s)

	resp := s.post(t, "/auth/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.status)

	page := s.get(t, "/page")
	assert.Equal(t, http.StatusFound, page.status)
}

func TestSignup(t *testing.T) {
	city := cities.All()[0]
	valid := func() url.Values {
		return url.Values{
			"fullName":        {"Sara Ahmadi"},
			"phone":           {"0912-345-6789"},
			"province":        {strconv.Itoa(city.ProvinceID)},
			"city":            {strconv.Itoa(city.ID)},
			"password":        {"Secret#123"},
			"confirmPassword": {"Secret#123"},
			"acceptTerms":     {"true"},
		}
	}

	t.Run("page lists provinces", func(t *testing.T) {
		s := newSite(t, newUpstream(t, nil))

		resp := s.get(t, "/auth/signup")
		require.Equal(t, http.StatusOK, resp.status)
		province, ok := cities.FindProvince(city.ProvinceID)
		require.True(t, ok)
		assert.Contains(t, resp.body, province.Name.Fa)
		assert.Contains(t, resp.body, "خیلی ضعیف")
	})

	t.Run("registers and asks for the code", func(t *testing.T) {
		var got auth.RegisterData
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				writeJSON(w, http.StatusCreated, map[string]string{"message": "OTP sent"})
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/auth/signup", valid())
		require.Equal(t, http.StatusSeeOther, resp.status)
		assert.Equal(t, "/otp-verification?phone=09123456789", resp.header.Get("Location"))
		assert.Equal(t, auth.RegisterData{
			FullName: "Sara Ahmadi",
			Phone:    "09123456789",
			City:     strconv.Itoa(city.ID),
			Province: strconv.Itoa(city.ProvinceID),
			Password: "Secret#123",
		}, got)

		otp := s.get(t, resp.header.Get("Location"))
		require.Equal(t, http.StatusOK, otp.status)
		assert.Contains(t, otp.body, "0912 345 6789")
		assert.Contains(t, otp.body, "کد تأیید به تلفن شما ارسال شد.")
	})

	t.Run("validation errors", func(t *testing.T) {
		s := newSite(t, newUpstream(t, nil))

		form := valid()
		form.Set("fullName", "ab")
		form.Set("phone", "0812345678")
		form.Set("confirmPassword", "other")
		form.Del("acceptTerms")

		resp := s.post(t, "/auth/signup", form)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Contains(t, resp.body, "حداقل 3 نویسه وارد کنید.")
		assert.Contains(t, resp.body, "شماره موبایل را مانند")
		assert.Contains(t, resp.body, "رمزهای عبور یکسان نیستند.")
		assert.Contains(t, resp.body, "پذیرفتن قوانین الزامی است.")
		assert.NotContains(t, resp.body, "Secret#123")
	})

	t.Run("city outside province", func(t *testing.T) {
		s := newSite(t, newUpstream(t, nil))

		form := valid()
		form.Set("province", strconv.Itoa(city.ProvinceID+1))

		resp := s.post(t, "/auth/signup", form)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Contains(t, resp.body, "یکی از گزینه‌های فهرست را انتخاب کنید.")
	})

	t.Run("phone already registered", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusConflict, "Phone number already registered")
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/auth/signup", valid())
		assert.Equal(t, http.StatusConflict, resp.status)
		assert.Contains(t, resp.body, "این شماره موبایل قبلاً ثبت شده است.")
	})
}

func TestOTP(t *testing.T) {
	form := url.Values{"phone": {"09123456789"}, "otp": {"123456"}}

	t.Run("verifies and signs in", func(t *testing.T) {
		var got auth.VerifyData
		u := newUpstream(t, func(mux *http.ServeMux) {
			loginRoutes(mux)
			mux.HandleFunc("POST /api/auth/verify-phone", func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				writeJSON(w, http.StatusOK, token.Pair{AccessToken: "a1", RefreshToken: "r1"})
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/otp-verification", form)
		require.Equal(t, http.StatusSeeOther, resp.status)
		assert.Equal(t, "/page", resp.header.Get("Location"))
		assert.Equal(t, auth.VerifyData{Phone: "09123456789", OTP: "123456"}, got)

		page := s.get(t, "/page")
		require.Equal(t, http.StatusOK, page.status)
		assert.Contains(t, page.body, "شماره شما تأیید شد.")
	})

	t.Run("invalid code", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/verify-phone", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusUnauthorized, "Invalid OTP. Attempts left: 2")
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/otp-verification", form)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Contains(t, resp.body, "تلاش‌های باقی‌مانده: 2")
	})

	t.Run("malformed code", func(t *testing.T) {
		s := newSite(t, newUpstream(t, nil))

		resp := s.post(t, "/otp-verification", url.Values{"phone": {"09123456789"}, "otp": {"12ab"}})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
		assert.Contains(t, resp.body, "کد تأیید ۶ رقم است.")
	})

	t.Run("expired sign-up session", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/verify-phone", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusUnauthorized, "Sign-up session expired")
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/otp-verification", form)
		require.Equal(t, http.StatusSeeOther, resp.status)
		assert.Equal(t, "/auth/signup", resp.header.Get("Location"))

		signup := s.get(t, "/auth/signup")
		assert.Contains(t, signup.body, "مهلت ثبت‌نام به پایان رسیده است.")
	})

	t.Run("resend", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/resend-otp", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/otp-verification/resend", url.Values{"phone": {"09123456789"}})
		require.Equal(t, http.StatusSeeOther, resp.status)
		assert.Equal(t, "/otp-verification?phone=09123456789", resp.header.Get("Location"))

		otp := s.get(t, resp.header.Get("Location"))
		assert.Contains(t, otp.body, "کد جدید ارسال شد.")
	})

	t.Run("resend cooldown", func(t *testing.T) {
		u := newUpstream(t, func(mux *http.ServeMux) {
			mux.HandleFunc("POST /api/auth/resend-otp", func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusTooManyRequests, "Please wait before requesting new OTP")
			})
		})
		s := newSite(t, u)

		resp := s.post(t, "/otp-verification/resend", url.Values{"phone": {"09123456789"}})
		require.Equal(t, http.StatusSeeOther, resp.status)

		otp := s.get(t, resp.header.Get("Location"))
		assert.Contains(t, otp.body, "لطفاً پیش از درخواست کد جدید کمی صبر کنید.")
	})
}

func signIn(t *testing.T, s *site) {
	t.Helper()
	resp := s.post(t, "/auth/login", url.Values{"entity": {"09123456789"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, resp.status)
}
