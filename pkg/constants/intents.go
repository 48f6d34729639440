package constants

// Intent actions exchanged with the browser.
const (
	ActionPay                  = "org.chromium.intent.action.PAY"
	ActionIsReadyToPay         = "org.chromium.intent.action.IS_READY_TO_PAY"
	ActionUpdatePaymentDetails = "org.chromium.intent.action.UPDATE_PAYMENT_DETAILS"
)

// DefaultMethodName is the payment method identifier handled by SamplePay.
const DefaultMethodName = "https://sample-pay-web-app.firebaseapp.com"

// DefaultAppPackageName is the package name SamplePay presents to the browser.
const DefaultAppPackageName = "com.example.android.samplepay"
