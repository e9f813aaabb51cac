package pattern

import "github.com/ignite/email-enrich/internal/domain"

// knownPatterns is the curated convention table, built from manual
// research and from batches whose addresses were confirmed by hand.
// Professional services overwhelmingly use first.last; the exceptions
// are listed explicitly.
var knownPatterns = map[string]domain.Pattern{
	// Big tech
	"google.com":     domain.PatternFirstDotLast,
	"microsoft.com":  domain.PatternFirstDotLast,
	"apple.com":      domain.PatternFirstDotLast,
	"amazon.com":     domain.PatternFirstDotLast,
	"facebook.com":   domain.PatternFirstDotLast,
	"linkedin.com":   domain.PatternFirstDotLast,
	"twitter.com":    domain.PatternFirstDotLast,
	"salesforce.com": domain.PatternFirstDotLast,
	"oracle.com":     domain.PatternFirstDotLast,
	"ibm.com":        domain.PatternFirstDotLast,
	"hp.com":         domain.PatternFirstDotLast,
	"dell.com":       domain.PatternFirstUnderscoreLast,
	"intel.com":      domain.PatternFirstDotLast,
	"cisco.com":      domain.PatternFirstDotLast,
	"adobe.com":      domain.PatternFirstDotLast,

	// Testing, inspection and certification
	"ul.com":               domain.PatternFirstDotLast,
	"bureauveritas.com":    domain.PatternFirstDotLast,
	"us.bureauveritas.com": domain.PatternFirstDotLast,
	"dnvgl.com":            domain.PatternFirstDotLast,
	"dnv.com":              domain.PatternFirstDotLast,
	"tuvsud.com":           domain.PatternFirstDotLast,
	"tuv.com":              domain.PatternFirstDotLast,
	"tuvnord.com":          domain.PatternFirstDotLast,
	"tuvrheinland.com":     domain.PatternFirstDotLast,
	"sgs.com":              domain.PatternFirstDotLast,
	"intertek.com":         domain.PatternFirstDotLast,
	"mistrasgroup.com":     domain.PatternFirstDotLast,
	"applus.com":           domain.PatternFirstDotLast,
	"dekra.com":            domain.PatternFirstDotLast,
	"element.com":          domain.PatternFirstDotLast,
	"exova.com":            domain.PatternFirstDotLast,
	"nde.net":              domain.PatternFirstDotLast,
	"tcr-inc.com":          domain.PatternFirstDotLast,
	"team-inc.com":         domain.PatternFirstDotLast,
	"olympus-ims.com":      domain.PatternFirstDotLast,
	"ge.com":               domain.PatternFirstDotLast,
	"bakerhughes.com":      domain.PatternFirstDotLast,
	"halliburton.com":      domain.PatternFirstDotLast,
	"schlumberger.com":     domain.PatternFirstDotLast,
	"zetec.com":            domain.PatternFirstDotLast,
	"sonatest.com":         domain.PatternFirstDotLast,
	"ndt.net":              domain.PatternFirstDotLast,
	"asnt.org":             domain.PatternFirstDotLast,
	"aws.org":              domain.PatternFirstDotLast,
	"api.org":              domain.PatternFirstDotLast,
	"astm.org":             domain.PatternFirstDotLast,
	"iso.org":              domain.PatternFirstDotLast,
	"ansi.org":             domain.PatternFirstDotLast,
	"nist.gov":             domain.PatternFirstDotLast,

	// Medical devices
	"medtronic.com":             domain.PatternFirstDotLast,
	"abbottlabs.com":            domain.PatternFirstDotLast,
	"jnj.com":                   domain.PatternFDotLast,
	"philips.com":               domain.PatternFirstDotLast,
	"stryker.com":               domain.PatternFirstDotLast,
	"zimmer.com":                domain.PatternFirstDotLast,
	"boston-scientific.com":     domain.PatternFirstDotLast,
	"edwards.com":               domain.PatternFirstDotLast,
	"octosafety.com":            domain.PatternFirstDotLast,
	"turnerxray.com":            domain.PatternFirstDotLast,
	"passy-muir.com":            domain.PatternFirstDotLast,
	"sis-usa.com":               domain.PatternFirstDotLast,
	"kestramedical.com":         domain.PatternFirstDotLast,
	"medtechgrowthpartners.com": domain.PatternFirstDotLast,
	"amanngirrbach.us":          domain.PatternFirstDotLast,
	"endogastricsolutions.com":  domain.PatternFirstDotLast,
	"tritoneinc.net":            domain.PatternFirstDotLast,

	// Engineering and consulting
	"aecom.com":         domain.PatternFirstDotLast,
	"jacobs.com":        domain.PatternFirstDotLast,
	"ch2m.com":          domain.PatternFirstDotLast,
	"fluor.com":         domain.PatternFirstDotLast,
	"kbr.com":           domain.PatternFirstDotLast,
	"worleyparsons.com": domain.PatternFirstDotLast,
	"wood.com":          domain.PatternFirstDotLast,
	"technipfmc.com":    domain.PatternFirstDotLast,
	"saipem.com":        domain.PatternFirstDotLast,
	"petrofac.com":      domain.PatternFirstDotLast,

	// Oil and gas
	"exxonmobil.com":     domain.PatternFirstDotLast,
	"chevron.com":        domain.PatternFirstDotLast,
	"shell.com":          domain.PatternFirstDotLast,
	"bp.com":             domain.PatternFirstDotLast,
	"totalenergies.com":  domain.PatternFirstDotLast,
	"conocophillips.com": domain.PatternFirstDotLast,
	"equinor.com":        domain.PatternFirstDotLast,
	"eni.com":            domain.PatternFirstDotLast,

	// Manufacturing and industrial
	"siemens.com":            domain.PatternFirstDotLast,
	"abb.com":                domain.PatternFirstDotLast,
	"emerson.com":            domain.PatternFirstDotLast,
	"honeywell.com":          domain.PatternFirstDotLast,
	"rockwellautomation.com": domain.PatternFirstDotLast,
	"schneider-electric.com": domain.PatternFirstDotLast,
	"yokogawa.com":           domain.PatternFirstDotLast,
	"endress.com":            domain.PatternFirstDotLast,
	"rosemount.com":          domain.PatternFirstDotLast,
	"fluke.com":              domain.PatternFirstDotLast,
	"keysight.com":           domain.PatternFirstDotLast,
	"tektronix.com":          domain.PatternFirstDotLast,
	"rohde-schwarz.com":      domain.PatternFirstDotLast,
	"ni.com":                 domain.PatternFirstDotLast,

	// Freemail providers rarely carry corporate conventions, but when a
	// contact's employer routes through one, concatenation dominates.
	"gmail.com":   domain.PatternFirstLast,
	"outlook.com": domain.PatternFirstLast,
	"yahoo.com":   domain.PatternFirstLast,
}
