package httpgin

import (
	"encoding/base64"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// availabilityMaxAge is how long shared caches may hold availability and slot lists.
const availabilityMaxAge = 15 * time.Second

// writeCachedJSON writes v with a weak validator derived from the body and a
// public max-age. Availability payloads are computed, so the tag only promises
// semantic equality. A matching If-None-Match (any listed tag, or *) gets a 304.
func writeCachedJSON(c *gin.Context, v any, maxAge time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		respondErr(c, err)
		return
	}

	h := fnv.New128a()
	_, _ = h.Write(b)
	tag := `W/"` + base64.RawURLEncoding.EncodeToString(h.Sum(nil)) + `"`

	c.Header("ETag", tag)
	c.Header("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge/time.Second)))

	if etagMatches(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

// etagMatches applies the weak comparison of If-None-Match.
func etagMatches(header, tag string) bool {
	want := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
