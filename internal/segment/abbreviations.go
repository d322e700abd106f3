package segment

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// abbreviationTables maps a language base code to lower-cased abbreviations
// (with their trailing period) that do not end a sentence.
var abbreviationTables = map[string]map[string]bool{
	"en": set(
		"mr.", "mrs.", "ms.", "dr.", "prof.", "sr.", "jr.", "st.", "vs.", "etc.",
		"e.g.", "i.e.", "cf.", "al.", "fig.", "figs.", "eq.", "eqs.", "ref.", "refs.",
		"sec.", "ch.", "vol.", "pp.", "p.", "approx.", "inc.", "ltd.", "co.",
		"corp.", "dept.", "univ.", "jan.", "feb.", "mar.", "apr.", "jun.", "jul.",
		"aug.", "sep.", "sept.", "oct.", "nov.", "dec.", "u.s.", "u.k.", "ph.d.",
	),
	"de": set(
		"z.b.", "bzw.", "usw.", "ca.", "dr.", "prof.", "nr.", "s.", "vgl.", "d.h.",
		"u.a.", "abb.", "hr.", "fr.", "evtl.", "ggf.", "inkl.", "bd.",
	),
	"fr": set(
		"m.", "mme.", "mlle.", "dr.", "p.", "pp.", "cf.", "etc.", "fig.", "env.",
		"vol.", "chap.", "éd.", "av.", "ex.",
	),
	"es": set(
		"sr.", "sra.", "srta.", "dr.", "dra.", "ud.", "uds.", "pág.", "págs.",
		"etc.", "fig.", "vol.", "cap.", "p.ej.", "aprox.",
	),
}

// numberTables holds abbreviations that only continue a sentence when a
// number follows ("No. 5"), because the bare word is common at a sentence
// end ("The answer is no.").
var numberTables = map[string]map[string]bool{
	"en": set("no.", "nos."),
	"fr": set("no.", "nº."),
	"es": set("no.", "núm."),
}
