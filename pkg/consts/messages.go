package consts

// user facing messages
const (
	MsgInvalidPhone      = "Некорректный номер телефона"
	MsgInvalidCode       = "Некорректный код"
	MsgOTPRateLimited    = "Повторная отправка кода возможна через %d сек."
	MsgOTPSent           = "Код отправлен"
	MsgOTPSimulated      = "Код отправлен (демо-режим)"
	MsgOTPNotFound       = "Код не найден. Запросите новый код"
	MsgOTPExpired        = "Срок действия кода истёк. Запросите новый код"
	MsgAttemptsExhausted = "Превышено количество попыток. Запросите новый код"
	MsgCodeMismatch      = "Неверный код. Осталось попыток: %d"
	MsgLoginSuccess      = "Вход выполнен"
	MsgUnauthorized      = "Требуется авторизация"
	MsgInvalidToken      = "Недействительный токен"
	MsgForbidden         = "Доступ запрещён"
	MsgDevOnly           = "Доступно только в режиме разработки"
	MsgTooManyRequests   = "Слишком много запросов, попробуйте позже"

	MsgInvalidAmount    = "Некорректная сумма платежа"
	MsgMissingFields    = "Не заполнены обязательные поля"
	MsgMissingPaymentID = "Не указан идентификатор платежа"
	MsgPaymentNotFound  = "Платёж не найден"
	MsgPaymentFailed    = "Ошибка при создании платежа"
	MsgPaymentStatus    = "Ошибка при получении статуса платежа"

	MsgInternalError = "Внутренняя ошибка сервера"
	MsgBadRequest    = "Некорректный запрос"
	MsgNotFound      = "Не найдено"
	MsgSaved         = "Сохранено"
	MsgDeleted       = "Удалено"
)

// notification texts
const (
	ReminderTitle   = "Скоро занятие"
	ReminderBody    = "%s начнётся через %d мин."
	ExpiryTitle     = "Абонемент заканчивается"
	ExpiryTomorrow  = "Абонемент «%s» заканчивается завтра"
	ExpiryInDays    = "Абонемент «%s» заканчивается через %d дн."
	LowBalanceTitle = "Мало бонусов"
	LowBalanceBody  = "На вашем счёте осталось %d бонусов"
)
