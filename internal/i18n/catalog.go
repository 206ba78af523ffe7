package i18n

// Message keys used across the bot.
const (
	KeyStart           = "start"
	KeyHelp            = "help"
	KeyUnauthorized    = "unauthorized"
	KeyUnknownCommand  = "unknown_command"
	KeyKeyRequired     = "key_required"
	KeyKeySaved        = "key_saved"
	KeyKeyInvalid      = "key_invalid"
	KeyKeyDeleted      = "key_deleted"
	KeyDelTokenConfirm = "del_token_confirm"
	KeyDelTokenButton  = "del_token_button"
	KeyKeyMissingArg   = "key_missing_arg"
	KeyThinking        = "thinking"
	KeyAskFailed       = "ask_failed"
	KeyAskFailedStatus = "ask_failed_status"
	KeyNoContent       = "no_content"
	KeyAskEmpty        = "ask_empty"
	KeySearchEmptyArg  = "search_empty_arg"
	KeySearchFailed    = "search_failed"
	KeySearchNoResults = "search_no_results"
	KeySearchDisabled  = "search_disabled"
	KeySearchOn        = "search_on"
	KeySearchOff       = "search_off"
	KeyChooseModel     = "choose_model"
	KeyModelSet        = "model_set"
	KeyModelInvalid    = "model_invalid"
	KeyModelsFailed    = "models_failed"
	KeyChoosePersona   = "choose_persona"
	KeyPersonaSet      = "persona_set"
	KeyChooseLang      = "choose_lang"
	KeyLangSet         = "lang_set"
	KeyResetDone       = "reset_done"
	KeyStatus          = "status"
	KeyServerError     = "server_error"
)

var messages = map[string]map[string]string{
	"en": {
		KeyStart: "Hi! I am an AI assistant. Send me any text and I will answer, or use /help to see the commands.",
		KeyHelp: "Commands:\n" +
			"/ask <text> - ask the assistant (plain text works too)\n" +
			"/search <query> - web search\n" +
			"/model - choose a model\n" +
			"/persona - choose a persona\n" +
			"/lang - choose a language\n" +
			"/token <key> - save your provider API key\n" +
			"/deltoken - remove the saved key\n" +
			"/toggle - enable or disable search context\n" +
			"/status - show current settings\n" +
			"/reset - forget the conversation",
		KeyUnauthorized:    "Sorry, this bot is private.",
		KeyUnknownCommand:  "I do not know that command. Try /help.",
		KeyKeyRequired:     "You need an API key first: /token <key>.",
		KeyKeySaved:        "Key saved. The message with the key was deleted.",
		KeyKeyInvalid:      "That key did not pass verification.",
		KeyKeyDeleted:      "Key removed.",
		KeyDelTokenConfirm: "Remove the saved API key?",
		KeyDelTokenButton:  "Remove key",
		KeyKeyMissingArg:   "Send the key with the command: /token <key>.",
		KeyThinking:        "...",
		KeyAskFailed:       "Something went wrong while generating the answer.",
		KeyAskFailedStatus: "The provider rejected the request (HTTP {status}).",
		KeyNoContent:       "The provider returned no content. Try again.",
		KeyAskEmpty:        "Send the question with the command: /ask <text>.",
		KeySearchEmptyArg:  "Send the query with the command: /search <query>.",
		KeySearchFailed:    "Search is unavailable right now.",
		KeySearchNoResults: "Nothing found for \"{query}\".",
		KeySearchDisabled:  "Search is switched off. Use /toggle to enable it.",
		KeySearchOn:        "Search context is on.",
		KeySearchOff:       "Search context is off.",
		KeyChooseModel:     "Choose a model (page {page}):",
		KeyModelSet:        "Model set to {model}.",
		KeyModelInvalid:    "That model is not available with your key.",
		KeyModelsFailed:    "Could not load the model list.",
		KeyChoosePersona:   "Choose a persona:",
		KeyPersonaSet:      "Persona set to {name}.",
		KeyChooseLang:      "Choose a language:",
		KeyLangSet:         "Language set to English.",
		KeyResetDone:       "Conversation forgotten.",
		KeyStatus: "Model: {model}\nPersona prompt: {prompt}\nLanguage: {lang}\n" +
			"Search: {search}\nAPI key: {key}\nHistory: {history} messages",
		KeyServerError: "Internal error, please try again later.",
	},
	"ru": {
		KeyStart: "Привет! Я ИИ-ассистент. Напишите мне любой текст, и я отвечу, или наберите /help для списка команд.",
		KeyHelp: "Команды:\n" +
			"/ask <текст> - задать вопрос (обычный текст тоже работает)\n" +
			"/search <запрос> - поиск в интернете\n" +
			"/model - выбрать модель\n" +
			"/persona - выбрать персону\n" +
			"/lang - выбрать язык\n" +
			"/token <ключ> - сохранить API-ключ провайдера\n" +
			"/deltoken - удалить сохранённый ключ\n" +
			"/toggle - включить или выключить поисковый контекст\n" +
			"/status - показать настройки\n" +
			"/reset - забыть разговор",
		KeyUnauthorized:    "Извините, это приватный бот.",
		KeyUnknownCommand:  "Я не знаю такой команды. Попробуйте /help.",
		KeyKeyRequired:     "Сначала нужен API-ключ: /token <ключ>.",
		KeyKeySaved:        "Ключ сохранён. Сообщение с ключом удалено.",
		KeyKeyInvalid:      "Ключ не прошёл проверку.",
		KeyKeyDeleted:      "Ключ удалён.",
		KeyDelTokenConfirm: "Удалить сохранённый API-ключ?",
		KeyDelTokenButton:  "Удалить ключ",
		KeyKeyMissingArg:   "Отправьте ключ вместе с командой: /token <ключ>.",
		KeyThinking:        "...",
		KeyAskFailed:       "Не получилось сгенерировать ответ.",
		KeyAskFailedStatus: "Провайдер отклонил запрос (HTTP {status}).",
		KeyNoContent:       "Провайдер не вернул текст. Попробуйте ещё раз.",
		KeyAskEmpty:        "Отправьте вопрос вместе с командой: /ask <текст>.",
		KeySearchEmptyArg:  "Отправьте запрос вместе с командой: /search <запрос>.",
		KeySearchFailed:    "Поиск сейчас недоступен.",
		KeySearchNoResults: "По запросу \"{query}\" ничего не найдено.",
		KeySearchDisabled:  "Поиск выключен. Включите его командой /toggle.",
		KeySearchOn:        "Поисковый контекст включён.",
		KeySearchOff:       "Поисковый контекст выключен.",
		KeyChooseModel:     "Выберите модель (страница {page}):",
		KeyModelSet:        "Модель изменена на {model}.",
		KeyModelInvalid:    "Эта модель недоступна с вашим ключом.",
		KeyModelsFailed:    "Не удалось загрузить список моделей.",
		KeyChoosePersona:   "Выберите персону:",
		KeyPersonaSet:      "Персона изменена на {name}.",
		KeyChooseLang:      "Выберите язык:",
		KeyLangSet:         "Язык переключён на русский.",
		KeyResetDone:       "Разговор забыт.",
		KeyStatus: "Модель: {model}\nПромпт персоны: {prompt}\nЯзык: {lang}\n" +
			"Поиск: {search}\nAPI-ключ: {key}\nИстория: {history} сообщений",
		KeyServerError: "Внутренняя ошибка, попробуйте позже.",
	},
}
