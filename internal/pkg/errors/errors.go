package errors

import "errors"

// Custom application errors
var (
	ErrTimingsUnavailable = errors.New("مواقيت الصلاة غير متوفرة")        // No prayer timings stored yet
	ErrInvalidTimeFormat  = errors.New("صيغة الوقت غير صالحة")            // Malformed HH:MM clock string
	ErrLocationUnset      = errors.New("لم يتم تحديد الموقع بعد")         // No city/country persisted yet
	ErrStorageOperation   = errors.New("فشلت عملية التخزين")              // Generic state-store error
	ErrScheduling         = errors.New("فشلت جدولة التنبيه")              // Alarm creation failed
	ErrProviderAPI        = errors.New("فشل الاتصال بمزود مواقيت الصلاة") // Prayer-times provider request failed
	ErrNotificationAPI    = errors.New("فشل إرسال الإشعار")               // Notification push failed
	ErrInternalServer     = errors.New("حدث خطأ داخلي")                   // Generic internal error
)
