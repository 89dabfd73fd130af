package event

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnrecognizedCause is returned when a means-of-death keyword is not part
// of the registry.
var ErrUnrecognizedCause = errors.New("unrecognized cause of death")

// Cause is a means of death as reported by the game in Kill lines.
// Its value is a stable ordinal and is used as an index into CauseTally.
type Cause uint8

const (
	CauseUnknown Cause = iota
	CauseShotgun
	CauseGauntlet
	CauseMachinegun
	CauseGrenade
	CauseGrenadeSplash
	CauseRocket
	CauseRocketSplash
	CausePlasma
	CausePlasmaSplash
	CauseRailgun
	CauseLightning
	CauseBFG
	CauseBFGSplash
	CauseWater
	CauseSlime
	CauseLava
	CauseCrush
	CauseTelefrag
	CauseFalling
	CauseSuicide
	CauseTargetLaser
	CauseTriggerHurt
	CauseNail
	CauseChaingun
	CauseProximityMine
	CauseKamikaze
	CauseJuiced
	CauseGrapple

	// NumCauses is the size of the registry.
	NumCauses int = iota
)

// causeKeywords is indexed by Cause. The order must match the constants above.
var causeKeywords = [NumCauses]string{
	"MOD_UNKNOWN",
	"MOD_SHOTGUN",
	"MOD_GAUNTLET",
	"MOD_MACHINEGUN",
	"MOD_GRENADE",
	"MOD_GRENADE_SPLASH",
	"MOD_ROCKET",
	"MOD_ROCKET_SPLASH",
	"MOD_PLASMA",
	"MOD_PLASMA_SPLASH",
	"MOD_RAILGUN",
	"MOD_LIGHTNING",
	"MOD_BFG",
	"MOD_BFG_SPLASH",
	"MOD_WATER",
	"MOD_SLIME",
	"MOD_LAVA",
	"MOD_CRUSH",
	"MOD_TELEFRAG",
	"MOD_FALLING",
	"MOD_SUICIDE",
	"MOD_TARGET_LASER",
	"MOD_TRIGGER_HURT",
	"MOD_NAIL",
	"MOD_CHAINGUN",
	"MOD_PROXIMITY_MINE",
	"MOD_KAMIKAZE",
	"MOD_JUICED",
	"MOD_GRAPPLE",
}

// causeByKeyword maps keywords back to causes.
// Built once from causeKeywords at package initialization.
var causeByKeyword = func() map[string]Cause {
	m := make(map[string]Cause, NumCauses)
	for i, kw := range causeKeywords {
		m[kw] = Cause(i)
	}
	return m
}()

// ParseCause resolves a MOD_* keyword. Matching is exact and case-sensitive;
// unknown keywords are never mapped to CauseUnknown.
func ParseCause(keyword string) (Cause, error) {
	c, ok := causeByKeyword[keyword]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedCause, keyword)
	}
	return c, nil
}

// Valid reports whether c is part of the registry.
func (c Cause) Valid() bool {
	return int(c) < NumCauses
}

// Keyword returns the MOD_* keyword of c, the exact inverse of ParseCause.
func (c Cause) Keyword() string {
	if !c.Valid() {
		return fmt.Sprintf("Cause(%d)", uint8(c))
	}
	return causeKeywords[c]
}

// String implements fmt.Stringer.
func (c Cause) String() string {
	return c.Keyword()
}

// Causes returns every registered cause in ordinal order.
func Causes() []Cause {
	all := make([]Cause, NumCauses)
	for i := range all {
		all[i] = Cause(i)
	}
	return all
}

// CauseNames returns the keywords of all causes in ordinal order.
func CauseNames() []string {
	return slices.Clone(causeKeywords[:])
}
