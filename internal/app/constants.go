package app

// MinHumansToStart is the minimum number of human-occupied seats required
// before the owner may start a match; the remaining seats fill with bots.
// Keep this centralized so tests or local runs can adjust the rule without
// touching multiple call sites.
const MinHumansToStart = 1
