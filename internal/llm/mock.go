package llm

import (
	"context"
	"strings"

	"telecom-agent/internal/domain"
	"telecom-agent/internal/prompt"
)

// MockProvider answers without any network call by matching the message
// against known support topics. It is deterministic and cannot fail, which
// makes it the default for deployments without API credentials.
type MockProvider struct {
	registry *prompt.Registry
}

func NewMockProvider(registry *prompt.Registry) *MockProvider {
	return &MockProvider{registry: registry}
}

func (p *MockProvider) Name() string { return ProviderMock }

func (p *MockProvider) FallbackResponse(language string) string {
	return p.registry.Fallback(language)
}

func (p *MockProvider) GenerateResponse(_ context.Context, message, language string) string {
	if !domain.IsSupportedLanguage(language) {
		language = domain.LanguageEnglish
	}
	topic := matchTopic(strings.ToLower(message))
	return mockReplies[topic][language]
}

type mockTopic int

const (
	topicGeneral mockTopic = iota
	topicGreeting
	topicBalance
	topicPackages
	topicSIM
	topicCoverage
)

var topicKeywords = []struct {
	topic    mockTopic
	keywords []string
}{
	{topicBalance, []string{"balance", "credit", "*123#", "بیلانس", "اعتبار"}},
	{topicPackages, []string{"package", "internet", "data", "bundle", "بسته", "اینترنت", "پیکیج", "انټرنیټ"}},
	{topicSIM, []string{"sim", "register", "registration", "tazkira", "سیم", "ثبت", "تذکره"}},
	{topicCoverage, []string{"coverage", "signal", "network", "پوشش", "سیگنال", "شبکه", "پوښښ", "سګنال"}},
	{topicGreeting, []string{"hello", "hi", "salam", "سلام", "جوړ"}},
}

func matchTopic(message string) mockTopic {
	for _, entry := range topicKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(message, kw) {
				return entry.topic
			}
		}
	}
	return topicGeneral
}

var mockReplies = map[mockTopic]map[string]string{
	topicGreeting: {
		domain.LanguageEnglish: "Hello! Welcome to Afghan Connect customer support. How can I help you today?",
		domain.LanguageDari:    "سلام! به پشتیبانی مشتریان افغان اتصال خوش آمدید. چگونه می‌توانم کمک کنم؟",
		domain.LanguagePashto:  "سلام! د افغان اتصال د پیرودونکو ملاتړ ته ښه راغلاست. څنګه مرسته کولی شم؟",
	},
	topicBalance: {
		domain.LanguageEnglish: "You can check your balance by dialing *123# or using the MyConnect mobile app. Your current balance will be displayed immediately.",
		domain.LanguageDari:    "شما می‌توانید با شماره‌گیری *123# یا استفاده از اپلیکیشن MyConnect بیلانس خود را بررسی کنید.",
		domain.LanguagePashto:  "تاسې کولی شئ د *123# په ډایل کولو یا د MyConnect اپلیکیشن په کارولو سره خپل بیلانس وګورئ.",
	},
	topicPackages: {
		domain.LanguageEnglish: "We offer three internet packages: Basic 100 AFN for 1GB (7 days), Standard 200 AFN for 3GB (15 days), Premium 500 AFN for 10GB (30 days). Dial *123*1# to subscribe.",
		domain.LanguageDari:    "ما سه بسته اینترنتی داریم: پایه 100 افغانی برای 1 گیگابایت (7 روز)، استاندارد 200 افغانی برای 3 گیگابایت (15 روز)، پریمیوم 500 افغانی برای 10 گیگابایت (30 روز). برای اشتراک *123*1# را شماره گیری کنید.",
		domain.LanguagePashto:  "موږ درې د انټرنیټ پیکیجونه لرو: اساسي 100 افغانۍ د 1 گیګابایټ لپاره (7 ورځې)، معیاري 200 افغانۍ د 3 گیګابایټ لپاره (15 ورځې)، پریمیوم 500 افغانۍ د 10 گیګابایټ لپاره (30 ورځې). د ګډون لپاره *123*1# ډایل کړئ.",
	},
	topicSIM: {
		domain.LanguageEnglish: "For SIM registration, please visit your nearest Afghan Connect office with your original Tazkira ID card. The process takes about 15-20 minutes.",
		domain.LanguageDari:    "برای ثبت سیم کارت، لطفاً به نزدیکترین دفتر افغان اتصال با کارت شناسایی تذکره اصلی مراجعه کنید.",
		domain.LanguagePashto:  "د سیم ثبت لپاره، مهرباني وکړئ د خپل اصلي تذکرې کارت سره د افغان اتصال نږدې دفتر ته مراجعه وکړئ.",
	},
	topicCoverage: {
		domain.LanguageEnglish: "We have extensive coverage in all 34 provinces, with strongest signals in Kabul, Herat, Mazar-i-Sharif, Kandahar, Jalalabad, and Kunduz.",
		domain.LanguageDari:    "ما پوشش گسترده در تمام 34 ولایت داریم، با قویترین سیگنال در کابل، هرات، مزارشریف، قندهار، جلال آباد و کندز.",
		domain.LanguagePashto:  "موږ په ټولو 34 ولایتونو کې پراخ پوښښ لرو، په کابل، هرات، مزارشریف، قندهار، جلال آباد او کندز کې د قوي سګنالونو سره.",
	},
	topicGeneral: {
		domain.LanguageEnglish: "Thank you for contacting Afghan Connect. I can help with balance checks, internet packages, SIM registration and network coverage. For anything else please call our support team at 0799000000.",
		domain.LanguageDari:    "از تماس شما با افغان اتصال تشکر. من می‌توانم در بررسی بیلانس، بسته های اینترنتی، ثبت سیم و پوشش شبکه کمک کنم. برای موارد دیگر لطفاً با تیم پشتیبانی ما در 0799000000 تماس بگیرید.",
		domain.LanguagePashto:  "د افغان اتصال سره د اړیکې لپاره مننه. زه کولی شم د بیلانس چک، د انټرنیټ پیکیجونو، د سیم ثبت او د شبکې پوښښ کې مرسته وکړم. د نورو مواردو لپاره مهرباني وکړئ په 0799000000 کې زموږ د ملاتړ ټیم سره اړیکه ونیسئ.",
	},
}
