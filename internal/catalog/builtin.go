package catalog

// builtin holds the patterns used when no catalog file is available. The
// credential patterns are the prefix-anchored ones that rarely false-positive.
var builtin = []Entry{
	// Personal data
	{Pattern: `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`, Types: []string{"email", "emails", "pii"}},
	{Pattern: `\+?\d{1,3}[ -]?\(?\d{2,4}\)?[ -]?\d{3,4}[ -]?\d{4}`, Types: []string{"phone", "pii"}},
	{Pattern: `(?i)\b[STFGM]\d{7}[A-Z]\b`, Types: []string{"sgNRIC", "pii"}},
	{Pattern: `\b(?:\d[ -]?){13,16}\b`, Types: []string{"creditcard", "financial"}},
	{Pattern: `\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`, Types: []string{"ipv4", "network"}},

	// Credentials
	{Pattern: `AKIA[0-9A-Z]{16}`, Types: []string{"aws", "secrets"}},
	{Pattern: `(?i)(?:aws_secret_access_key|aws_secret_key|secretKey)["'\s:=]+[A-Za-z0-9/+=]{40}`, Types: []string{"aws", "secrets"}},
	{Pattern: `g(?:hp|ho|hu|hs|hr)_[A-Za-z0-9]{36}`, Types: []string{"github", "secrets"}},
	{Pattern: `xox[abprs]-[A-Za-z0-9-]{10,48}`, Types: []string{"slack", "secrets"}},
	{Pattern: `sk_live_[A-Za-z0-9]{24,}`, Types: []string{"stripe", "secrets"}},
	{Pattern: `\bAIza[0-9A-Za-z_-]{35}\b`, Types: []string{"google", "secrets"}},
	{Pattern: `\bsk-ant-[A-Za-z0-9_-]{30,}\b`, Types: []string{"anthropic", "secrets"}},
	{Pattern: `\bsk-[A-Za-z0-9]{32,}\b`, Types: []string{"openai", "secrets"}},
	{Pattern: `\bSG\.[A-Za-z0-9_-]{16}\.[A-Za-z0-9_-]{32,}\b`, Types: []string{"sendgrid", "secrets"}},
	{Pattern: `\bnpm_[A-Za-z0-9]{36}\b`, Types: []string{"npm", "secrets"}},
	{Pattern: `eyJ[A-Za-z0-9_-]+?\.[A-Za-z0-9._-]+?\.[A-Za-z0-9._-]+`, Types: []string{"jwt", "secrets"}},
	{Pattern: `-----BEGIN [A-Z ]+PRIVATE KEY-----[\s\S]*?-----END [A-Z ]+PRIVATE KEY-----`, Types: []string{"privatekey", "secrets"}},
}

// Builtin returns a copy of the built-in catalog.
func Builtin() Catalog {
	entries := make([]Entry, len(builtin))
	for i, e := range builtin {
		entries[i] = Entry{Pattern: e.Pattern, Types: append([]string(nil), e.Types...)}
	}
	return Catalog{Entries: entries}
}
