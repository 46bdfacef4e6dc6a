package core

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dkeye/Poker/internal/domain"
)

const (
	maxSuggestions     = 3
	underscoreAttempts = 99
)

var (
	nicknamePrefixes = []string{"New_", "Player_", "User_"}
	decorativeSuffix = []string{"Pro", "Plus", "X", "Star", "Max"}
	spectatorMarkers = []string{"spectator", "observer", "watcher", "viewer"}
)

// NicknameResolution is the resolver verdict. Suggestions is empty when OK.
type NicknameResolution struct {
	OK          bool
	Suggestions []string
}

// NormalizeNickname trims and validates a requested nickname.
func NormalizeNickname(raw string) (string, error) {
	n := strings.TrimSpace(raw)
	if n == "" || utf8.RuneCountInString(n) > domain.MaxNicknameLen {
		return "", ErrInvalidNickname
	}
	return n, nil
}

func nicknameKey(n string) string {
	return strings.ToLower(strings.TrimSpace(n))
}

// IsSpectatorNickname reports whether the nickname itself names an observer role.
func IsSpectatorNickname(nickname string) bool {
	k := nicknameKey(nickname)
	for _, m := range spectatorMarkers {
		if strings.Contains(k, m) {
			return true
		}
	}
	return false
}

// ResolveNickname checks desired against existing nicknames and, on conflict,
// proposes up to three alternatives that are free at generation time.
func ResolveNickname(desired string, existing []string) NicknameResolution {
	taken := make(map[string]struct{}, len(existing)+maxSuggestions)
	for _, n := range existing {
		taken[nicknameKey(n)] = struct{}{}
	}
	base := strings.TrimSpace(desired)
	if _, ok := taken[nicknameKey(base)]; !ok {
		return NicknameResolution{OK: true}
	}

	var out []string
	free := func(c string) bool {
		if c == "" {
			return false
		}
		_, ok := taken[nicknameKey(c)]
		return !ok
	}
	add := func(c string) {
		taken[nicknameKey(c)] = struct{}{}
		out = append(out, c)
	}
	firstFree := func(cands []string) {
		if len(out) >= maxSuggestions {
			return
		}
		for _, c := range cands {
			if free(c) {
				add(c)
				return
			}
		}
	}

	numeric := make([]string, 0, 9)
	for i := 2; i <= 10; i++ {
		numeric = append(numeric, fitNickname("", base, strconv.Itoa(i)))
	}
	firstFree(numeric)

	underscore := []string{fitNickname("", base, "_")}
	for i := 1; i <= underscoreAttempts; i++ {
		underscore = append(underscore, fitNickname("", base, "_"+strconv.Itoa(i)))
	}
	firstFree(underscore)

	prefixed := make([]string, 0, len(nicknamePrefixes))
	for _, p := range nicknamePrefixes {
		prefixed = append(prefixed, fitNickname(p, base, ""))
	}
	firstFree(prefixed)

	for _, s := range decorativeSuffix {
		if len(out) >= maxSuggestions {
			break
		}
		if c := fitNickname("", base, s); free(c) {
			add(c)
		}
	}
	return NicknameResolution{Suggestions: out}
}

// fitNickname joins prefix, base and suffix, cutting base so the result stays
// within MaxNicknameLen runes. Returns "" when nothing of base survives.
func fitNickname(prefix, base, suffix string) string {
	room := domain.MaxNicknameLen - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(suffix)
	if r := []rune(base); len(r) > room {
		if room <= 0 {
			return ""
		}
		base = strings.TrimRightFunc(string(r[:room]), unicode.IsSpace)
	}
	if base == "" {
		return ""
	}
	return prefix + base + suffix
}
