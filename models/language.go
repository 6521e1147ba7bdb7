package models

import (
	"sort"

	"golang.org/x/text/cases"
)

// LanguageMap maps ISO-639-like language codes to display names.
type LanguageMap map[string]string

var Languages = LanguageMap{
	"aa": "Afar", "ab": "Abkhazian", "ae": "Avestan", "af": "Afrikaans",
	"ak": "Akan", "am": "Amharic", "an": "Aragonese", "ar": "Arabic",
	"as": "Assamese", "av": "Avaric", "ay": "Aymara", "az": "Azerbaijani",
	"ba": "Bashkir", "be": "Belarusian", "bg": "Bulgarian", "bh": "Bihari",
	"bi": "Bislama", "bm": "Bambara", "bn": "Bengali", "bo": "Tibetan",
	"br": "Breton", "bs": "Bosnian", "ca": "Catalan", "ce": "Chechen",
	"ch": "Chamorro", "cn": "Cantonese (Simplified Chinese)", "co": "Corsican", "cr": "Cree",
	"cs": "Czech", "cu": "Church Slavic", "cv": "Chuvash", "cy": "Welsh",
	"da": "Danish", "de": "German", "dv": "Divehi", "dz": "Dzongkha",
	"ee": "Ewe", "el": "Greek", "en": "English", "eo": "Esperanto",
	"es": "Spanish", "et": "Estonian", "eu": "Basque", "fa": "Persian",
	"ff": "Fulah", "fi": "Finnish", "fj": "Fijian", "fo": "Faroese",
	"fr": "French", "fy": "Western Frisian", "ga": "Irish", "gd": "Gaelic",
	"gl": "Galician", "gn": "Guarani", "gu": "Gujarati", "gv": "Manx",
	"ha": "Hausa", "he": "Hebrew", "hi": "Hindi", "ho": "Hiri Motu",
	"hr": "Croatian", "ht": "Haitian", "hu": "Hungarian", "hy": "Armenian",
	"hz": "Herero", "ia": "Interlingua (International Auxiliary Language Association)", "id": "Indonesian", "ie": "Interlingue",
	"ig": "Igbo", "ii": "Sichuan Yi", "ik": "Inupiaq", "io": "Ido",
	"is": "Icelandic", "it": "Italian", "iu": "Inuktitut", "ja": "Japanese",
	"jv": "Javanese", "ka": "Georgian", "kg": "Kongo", "ki": "Kikuyu",
	"kj": "Kuanyama", "kk": "Kazakh", "kl": "Kalaallisut", "km": "Central Khmer",
	"kn": "Kannada", "ko": "Korean", "kr": "Kanuri", "ks": "Kashmiri",
	"ku": "Kurdish", "kv": "Komi", "kw": "Cornish", "ky": "Kirghiz",
	"la": "Latin", "lb": "Luxembourgish", "lg": "Ganda", "li": "Limburgan",
	"ln": "Lingala", "lo": "Lao", "lt": "Lithuanian", "lv": "Latvian",
	"mg": "Malagasy", "mh": "Marshallese", "mi": "Maori", "mk": "Macedonian",
	"ml": "Malayalam", "mn": "Mongolian", "mo": "Moldavian", "mr": "Marathi",
	"ms": "Malay", "mt": "Maltese", "my": "Burmese", "na": "Nauru",
	"nb": "Norwegian Bokmål", "nd": "Ndebele, North", "ne": "Nepali", "ng": "Ndonga",
	"nl": "Dutch", "nn": "Norwegian Nynorsk", "no": "Norwegian", "nr": "Ndebele, South",
	"nv": "Navajo", "ny": "Chichewa", "oc": "Occitan", "oj": "Ojibwa",
	"om": "Oromo", "or": "Oriya", "os": "Ossetian", "pa": "Panjabi",
	"pi": "Pali", "pl": "Polish", "ps": "Pushto", "pt": "Portuguese",
	"qu": "Quechua", "rm": "Romansh", "rn": "Rundi", "ro": "Romanian",
	"ru": "Russian", "rw": "Kinyarwanda", "sa": "Sanskrit", "sc": "Sardinian",
	"sd": "Sindhi", "se": "Northern Sami", "sg": "Sango", "sh": "Serbo-Croatian",
	"si": "Sinhala", "sk": "Slovak", "sl": "Slovenian", "sm": "Samoan",
	"sn": "Shona", "so": "Somali", "sq": "Albanian", "sr": "Serbian",
	"ss": "Swati", "st": "Sotho, Southern", "su": "Sundanese", "sv": "Swedish",
	"sw": "Swahili", "ta": "Tamil", "te": "Telugu", "tg": "Tajik",
	"th": "Thai", "ti": "Tigrinya", "tk": "Turkmen", "tl": "Tagalog",
	"tn": "Tswana", "to": "Tonga (Tonga Islands)", "tr": "Turkish", "ts": "Tsonga",
	"tt": "Tatar", "tw": "Twi", "ty": "Tahitian", "ug": "Uighur",
	"uk": "Ukrainian", "ur": "Urdu", "uz": "Uzbek", "ve": "Venda",
	"vi": "Vietnamese", "vo": "Volapük", "wa": "Walloon", "wo": "Wolof",
	"xh": "Xhosa", "xx": "No Language", "yi": "Yiddish", "yo": "Yoruba",
	"za": "Zhuang", "zh": "Chinese", "zu": "Zulu",
}

// Display returns the display name of code, or code itself when it is not mapped.
func (s LanguageMap) Display(code string) string {
	if n, ok := s[code]; ok {
		return n
	}
	return code
}

// CodeByDisplay resolves a display name back to its code. Exact matches win over
// case-insensitive ones; several codes may share a name, the smallest code is returned.
func (s LanguageMap) CodeByDisplay(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	var exact, folded []string
	fold := cases.Fold()
	fname := fold.String(name)
	for code, n := range s {
		if n == name {
			exact = append(exact, code)
		} else if fold.String(n) == fname {
			folded = append(folded, code)
		}
	}
	for _, c := range [][]string{exact, folded} {
		if len(c) > 0 {
			sort.Strings(c)
			return c[0], true
		}
	}
	return "", false
}

// DisplayNames returns the sorted distinct display names of codes.
func (s LanguageMap) DisplayNames(codes []string) []string {
	seen := map[string]struct{}{}
	var res []string
	for _, c := range codes {
		n := s.Display(c)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		res = append(res, n)
	}
	sort.Strings(res)
	return res
}
