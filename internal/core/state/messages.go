package state

// Shopper facing texts, Arabic like the rest of the storefront.
const (
	msgAdded        = "تم إضافة %d من %s إلى السلة"
	msgRemoved      = "تم حذف المنتج من السلة"
	msgSearching    = "جارٍ البحث عن: %s"
	msgCategory     = "تم اختيار فئة: %s"
	msgOrderSent    = "تم إرسال طلبك بنجاح! سنتواصل معك قريباً"
	msgRequestSent  = "تم إرسال طلب المنتج بنجاح! سنبحث عنه ونرسل لك السعر خلال 24 ساعة"
	msgSubmitFailed = "حدث خطأ أثناء إرسال الطلب. يرجى المحاولة مرة أخرى"
)
