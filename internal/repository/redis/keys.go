package redisrepo

import "fmt"

const ns = "bbyacht:v1"

// KeyAvailabilityGen holds the counter bumped on every slot or reservation change.
func KeyAvailabilityGen() string {
	return ns + ":availability:gen"
}

func KeyAvailability(gen int64, query string) string {
	return fmt.Sprintf("%s:availability:%d:%s", ns, gen, query)
}

func KeyIdempotency(scope string, actorID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:%s:%d:%s", ns, scope, actorID, idemKey)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

// ChannelNotifications is the pub/sub channel for one notification kind.
func ChannelNotifications(kind string) string {
	return ns + ":notify:" + kind
}

// PatternNotifications matches every notification channel.
func PatternNotifications() string {
	return ns + ":notify:*"
}
