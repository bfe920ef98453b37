package ui

import (
	"errors"

	"github.com/hamidallah2/quran/internal/api"
)

// Localization manages user-facing text translations.
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyReciters          = "reciters"
	KeyMoshafs           = "moshafs"
	KeySuwar             = "suwar"
	KeySearchPrompt      = "search_prompt"
	KeyNoResults         = "no_results"
	KeyNoOptions         = "no_options"
	KeyLoading           = "loading"
	KeyDownloading       = "downloading"
	KeyDownloadDone      = "download_done"
	KeyErrConnectivity   = "err_connectivity"
	KeyErrServer         = "err_server"
	KeyErrRequest        = "err_request"
	KeyErrGeneric        = "err_generic"
	KeyErrDownloadFailed = "err_download_failed"
	KeyHintKeys          = "hint_keys"
)

// NewLocalization creates a localization manager. Unknown languages
// fall back to Arabic, the catalog's home language.
func NewLocalization(lang string) *Localization {
	l := &Localization{
		currentLanguage: "ar",
		texts:           make(map[string]map[string]string),
	}
	l.initializeTexts()
	if _, ok := l.texts[lang]; ok {
		l.currentLanguage = lang
	}
	return l
}

// T returns the text for the given key in the current language.
func (l *Localization) T(key string) string {
	if text, ok := l.texts[l.currentLanguage][key]; ok {
		return text
	}
	if text, ok := l.texts["ar"][key]; ok {
		return text
	}
	return key
}

// ErrorText picks the user-facing message for a fetch failure from
// the API client's error taxonomy.
func (l *Localization) ErrorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindNetwork:
			return l.T(KeyErrConnectivity)
		case api.KindServer:
			return l.T(KeyErrServer)
		case api.KindClient:
			return l.T(KeyErrRequest)
		}
	}
	return l.T(KeyErrGeneric)
}

func (l *Localization) initializeTexts() {
	l.texts["ar"] = map[string]string{
		KeyReciters:          "القراء",
		KeyMoshafs:           "المصاحف",
		KeySuwar:             "السور",
		KeySearchPrompt:      "ابحث عن قارئ",
		KeyNoResults:         "لا توجد نتائج",
		KeyNoOptions:         "لا خيارات",
		KeyLoading:           "جاري التحميل",
		KeyDownloading:       "جاري تنزيل السورة",
		KeyDownloadDone:      "اكتمل التنزيل",
		KeyErrConnectivity:   "تعذر الاتصال بالخادم، تحقق من اتصالك بالإنترنت",
		KeyErrServer:         "خطأ في الخادم، حاول مرة أخرى لاحقا",
		KeyErrRequest:        "طلب غير صالح",
		KeyErrGeneric:        "حدث خطأ غير متوقع",
		KeyErrDownloadFailed: "فشل تنزيل السورة",
		KeyHintKeys:          "تنقل ↑↓  تبديل tab  اختيار enter  بحث /  تنزيل d  خروج q",
	}
	l.texts["en"] = map[string]string{
		KeyReciters:          "Reciters",
		KeyMoshafs:           "Moshafs",
		KeySuwar:             "Suwar",
		KeySearchPrompt:      "Search reciters",
		KeyNoResults:         "No results",
		KeyNoOptions:         "No options",
		KeyLoading:           "Loading",
		KeyDownloading:       "Downloading surah",
		KeyDownloadDone:      "Download complete",
		KeyErrConnectivity:   "Could not reach the server, check your connection",
		KeyErrServer:         "Server error, try again later",
		KeyErrRequest:        "Invalid request",
		KeyErrGeneric:        "Something went wrong",
		KeyErrDownloadFailed: "Surah download failed",
		KeyHintKeys:          "↑↓ move  tab switch  enter select  / search  d download  q quit",
	}
}
