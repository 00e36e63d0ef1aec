package entity

import "errors"

// Классы ошибок конвейера. Компоненты оборачивают их через fmt.Errorf("%w: ...").
var (
	ErrConnection     = errors.New("connection error")     // порт не открылся, фатально только при старте
	ErrTransport      = errors.New("transport error")      // запись в порт не удалась
	ErrCapture        = errors.New("capture error")        // кадр не получен, цикл пропускается
	ErrClassification = errors.New("classification error") // детектор или обрезка упали
	ErrPersistence    = errors.New("persistence error")    // запись или снимок не сохранены
	ErrCorruptStore   = errors.New("corrupt store")        // журнал не читается, считаем пустым
)
