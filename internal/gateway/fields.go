package gateway

// GP webpay protocol field names.
const (
	FieldMerchantNumber = "MERCHANTNUMBER"
	FieldOperation      = "OPERATION"
	FieldOrderNumber    = "ORDERNUMBER"
	FieldAmount         = "AMOUNT"
	FieldCurrency       = "CURRENCY"
	FieldDepositFlag    = "DEPOSITFLAG"
	FieldMerOrderNum    = "MERORDERNUM"
	FieldURL            = "URL"
	FieldDescription    = "DESCRIPTION"
	FieldMD             = "MD"
	FieldLang           = "LANG"
	FieldPRCode         = "PRCODE"
	FieldSRCode         = "SRCODE"
	FieldResultText     = "RESULTTEXT"
	FieldUserParam1     = "USERPARAM1"
	FieldAddInfo        = "ADDINFO"
	FieldDetails        = "DETAILS"
	FieldDigest         = "DIGEST"
	FieldDigest1        = "DIGEST1"
)

// OperationCreateOrder is the only operation the merchant sends.
const OperationCreateOrder = "CREATE_ORDER"

// requestDigestOrder is the exact field order of the outbound request
// digest. The gateway recomputes the digest over the same order, so this
// list must never be reordered.
var requestDigestOrder = []string{
	FieldMerchantNumber,
	FieldOperation,
	FieldOrderNumber,
	FieldAmount,
	FieldCurrency,
	FieldDepositFlag,
	FieldMerOrderNum,
	FieldURL,
	FieldDescription,
	FieldMD,
}

// resultDigestOrder is the exact field order of the inbound result digest
// covered by DIGEST. DIGEST1 covers the same string with the merchant
// number appended.
var resultDigestOrder = []string{
	FieldOperation,
	FieldOrderNumber,
	FieldMerOrderNum,
	FieldMD,
	FieldPRCode,
	FieldSRCode,
	FieldResultText,
	FieldDetails,
	FieldUserParam1,
	FieldAddInfo,
}

// requiredCallbackFields must all be present on an inbound result before
// anything else is checked.
var requiredCallbackFields = []string{
	FieldOperation,
	FieldOrderNumber,
	FieldPRCode,
	FieldSRCode,
	FieldDigest,
	FieldDigest1,
}
