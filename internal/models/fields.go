package models

// Field-name variants per logical field. Upstream exports disagree on column
// spellings, so every logical field maps to an ordered list of accepted
// literal names consumed by the records resolver. Order matters: earlier
// spellings win when a row carries several.

// Invoice line item (ILI) columns.
var (
	ILIPOVariants          = []string{"po_number", "PO_NUMBER", "PO_Number", "Po_Number", "PO Number", "purchase_order"}
	ILIIBXVariants         = []string{"IBX", "ibx", "site_id", "SITE_ID", "ibx_center", "IBX_CENTER"}
	ILIItemCodeVariants    = []string{"item_code", "ITEM_NUMBER", "item_number", "Item_Number", "PRODUCT_CODE", "product_code", "Item Code"}
	ILIDescVariants        = []string{"description", "DESCRIPTION", "Charge Description", "CHARGE_DESCRIPTION", "charge_description"}
	ILIQtyVariants         = []string{"quantity", "QUANTITY", "Quantity"}
	ILIUnitPriceVariants   = []string{"unit_price", " UNIT_SELLING_PRICE ", "UNIT_SELLING_PRICE", "Unit Selling Price", "unit_selling_price", "Unit Price"}
	ILILLAVariants         = []string{"line_level_amount", " LINE_LEVEL_AMOUNT ", "LINE_LEVEL_AMOUNT", "Line Level Amount", "LLA", "lla"}
	ILIBillingFromVariants = []string{"invoice_start_date", "BILLING_FROM", "billing_from", "INVOICE_START_DATE", "SERVICE_START_DATE", "service_start_date"}
	ILIBillingTillVariants = []string{"BILLING_TILL", "billing_till", "INVOICE_END_DATE", "SERVICE_END_DATE"}
	ILICountryVariants     = []string{"country", "COUNTRY", "Country"}
	ILIRegionVariants      = []string{"region", "REGION", "Region"}
	ILISerialVariants      = []string{"SERIAL_NUMBER", "serial_number"}
	ILILineNumberVariants  = []string{"LINE_NUMBER", "line_number"}
	ILITrxNumberVariants   = []string{"invoice_number", "TRX_NUMBER", "trx_number", "Invoice Number"}
)

// Quote line item (QLI) columns.
var (
	QLIPOVariants            = []string{"Po Number", "PO Number", "po_number", "PO_NUMBER", "PO_Number"}
	QLISiteVariants          = []string{"Site ID", "Site_Id", "IBX", "ibx", "site_id", "SITE_ID"}
	QLIProductCodeVariants   = []string{"Item Code", "Item_Code", "Product Code", "PRODUCT_CODE", "product_code"}
	QLIChargeDescVariants    = []string{"Item Description", "Item_Description", "Charge Description", "CHARGE_DESCRIPTION"}
	QLIChangeDescVariants    = []string{"Changed Item Description", "Changed_Item_Description", "Change Description", "CHANGE_DESCRIPTION"}
	QLIQtyVariants           = []string{"Quantity", "quantity", "QUANTITY"}
	QLIUnitPriceVariants     = []string{"Unit Price", "Unit_Price", "OTC", "otc", "Total OTC", "MRC", "mrc", "Total MRC"}
	QLIServiceStartVariants  = []string{"service_start_date", "Service_Start_Date", "SERVICE_START_DATE"}
	QLIInitialTermVariants   = []string{"initial_term", "Initial_Term", "INITIAL_TERM"}
	QLIRenewalTermVariants   = []string{"term", "Term", "TERM", "renewal_term", "RENEWAL_TERM"}
	QLIInitialEscVariants    = []string{"first_Price_increment_applicable_after", "Initial_term_Increment", "initial_term_increment", "Initial_Term_Increment", "FIRST_PRICE_INC_APP_AFTER"}
	QLISubsequentEscVariants = []string{"price_increase_percentage", "Increment", "increment", "PRICE_INCREASE_PERCENTAGE"}
)

// Rate card row columns.
var (
	RCSubTypeVariants       = []string{"u_rate_card_sub_type", "rate_card_sub_type", "Rate Card Sub Type"}
	RCTypeVariants          = []string{"u_rate_card_type", "rate_card_type", "Rate Card Type"}
	RCCountryVariants       = []string{"u_country", "country", "Country"}
	RCRegionVariants        = []string{"u_region", "region", "Region"}
	RCEffectiveFromVariants = []string{"u_effective_from", "effective_from", "Effective From"}
	RCEffectiveTillVariants = []string{"effective_till", "effective_to", "Effective Till"}
	RCAllIBXVariants        = []string{"u_all_ibx", "all_ibx", "All IBX"}
	RCIBXListVariants       = []string{"u_ibxs", "ibxs", "IBXs"}
	RCExcludedIBXVariants   = []string{"u_excluded_ibxs", "excluded_ibxs", "Excluded IBXs"}
	RCICBFlagVariants       = []string{"u_icb_flag", "icb_flag", "ICB Flag"}
	RCSubkeysVariants       = []string{"u_subkeys", "subkeys", "Subkeys"}
	RCPriceKVAVariants      = []string{"u_pricekva", "pricekva", "Price per kVA"}
	RCRateVariants          = []string{"u_rate", "rate", "Rate"}
	RCNRCVariants           = []string{"u_nrc", "nrc", "NRC"}
	RCStdNTPVariants        = []string{"u_std_ntp_non_red", "std_ntp_non_red"}
	RCStdPTPVariants        = []string{"u_std_ptp_non_red", "std_ptp_non_red"}
	RCEntNTPVariants        = []string{"u_ent_ntp_non_red", "ent_ntp_non_red"}
	RCEntPTPVariants        = []string{"u_ent_ptp_non_red", "ent_ptp_non_red"}
)
