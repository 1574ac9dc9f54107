package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotConflict возвращается при попытке создать слот с уже занятым start_time
	// (уникальность в схеме задана только по start_time, как в исходной модели)
	ErrSlotConflict = errors.New("slot.repository: slot with this start time already exists")

	// ErrInvalidRange возвращается, когда конец диапазона раньше начала
	ErrInvalidRange = errors.New("slot.repository: invalid time range")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
