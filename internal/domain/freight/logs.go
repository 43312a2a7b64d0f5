package freight

import "github.com/fms/backend/internal/domain/resource"

// Filing types sharing the ams_filings table
const (
	FilingAMS      = "AMS"
	FilingManifest = "MANIFEST"
)

func filingDefinition(name, path, amsType string) *resource.Definition {
	return &resource.Definition{
		Name:  name,
		Path:  path,
		Table: "ams_filings",
		Fields: []resource.Field{
			ref("shipmentId", "shipment_id"),
			str("mblNo", "mbl_no", size(30), required),
			str("hblNo", "hbl_no", size(30)),
			str("filingType", "filing_type", size(20), byDefault("ORIGINAL")),
			str("filingNo", "filing_no", size(50)),
			date("filingDate", "filing_date"),
			str("shipperName", "shipper_name", size(200)),
			text("shipperAddress", "shipper_addr"),
			str("consigneeName", "consignee_name", size(200)),
			text("consigneeAddress", "consignee_addr"),
			str("notifyName", "notify_name", size(200)),
			text("notifyAddress", "notify_addr"),
			text("goodsDesc", "goods_desc"),
			str("containerNo", "container_no", size(20)),
			str("sealNo", "seal_no", size(30)),
			dec("weight", "weight"),
			str("weightUnit", "weight_unit", size(5), byDefault("KG")),
			str("responseCode", "response_code", size(20)),
			text("responseMsg", "response_msg"),
			str("status", "status", size(20), byDefault("DRAFT")),
		},
		Filters: []resource.FilterSpec{
			eq("shipmentId", "shipment_id", resource.Ref),
			eq("filingType", "filing_type", resource.String),
			contains("mblNo", "mbl_no"),
		},
		SearchColumns: []string{"mbl_no", "hbl_no", "filing_no"},
		DateColumn:    "filing_date",
		Delete:        resource.HardDelete,
		Fixed:         map[string]any{"ams_type": amsType},
	}
}

// AMSFiling is a US Automated Manifest System submission
var AMSFiling = filingDefinition("AMS filing", "ams/sea", FilingAMS)

// ManifestFiling is a cargo manifest submission
var ManifestFiling = filingDefinition("manifest filing", "manifest/sea", FilingManifest)

// PreAlertSetting configures which parties receive pre-alert mail
var PreAlertSetting = &resource.Definition{
	Name:  "pre-alert setting",
	Path:  "pre-alert/settings",
	Table: "pre_alert_settings",
	Fields: []resource.Field{
		str("settingName", "setting_name", size(100), required),
		str("serviceGroup", "service_group", size(10), byDefault("AIR"), rule("oneof=AIR SEA")),
		str("shipperCode", "shipper_code", size(20)),
		str("consigneeCode", "consignee_code", size(20)),
		str("partnerCode", "partner_code", size(20)),
		str("polCode", "pol_code", size(10)),
		str("podCode", "pod_code", size(10)),
		text("attachmentTypes", "attachment_types"),
		str("baseDateType", "base_date_type", size(10), byDefault("ETD"), rule("oneof=ETD ETA")),
		flag("autoSend", "auto_send_yn", byDefault(false)),
		integer("autoSendDays", "auto_send_days", byDefault(0), rule("gte=0")),
		str("autoSendTime", "auto_send_time", size(5)),
		str("mailSubject", "mail_subject", size(500)),
		text("mailBody", "mail_body"),
		text("mailTo", "mail_to"),
		text("mailCc", "mail_cc"),
		flag("active", "use_yn", byDefault(true)),
	},
	Filters: []resource.FilterSpec{
		eq("serviceGroup", "service_group", resource.String),
		eq("active", "use_yn", resource.Flag),
	},
	SearchColumns: []string{"setting_name"},
}

// Mail log statuses
const (
	MailStandby = "STANDBY"
	MailSent    = "SENT"
	MailFailed  = "FAILED"
)

// PreAlertMailLog records every pre-alert mail, sent or not
var PreAlertMailLog = &resource.Definition{
	Name:  "pre-alert mail log",
	Path:  "pre-alert/mail-log",
	Table: "pre_alert_mail_logs",
	Fields: []resource.Field{
		ref("settingId", "setting_id"),
		str("docType", "doc_type", size(30), byDefault("PRE_ALERT_AIR")),
		str("docNo", "doc_no", size(50)),
		ref("mawbId", "mawb_id"),
		ref("hawbId", "hawb_id"),
		str("mailFrom", "mail_from", size(200), rule("email")),
		text("mailTo", "mail_to", required),
		text("mailCc", "mail_cc"),
		text("mailBcc", "mail_bcc"),
		str("mailSubject", "mail_subject", size(500), required),
		text("mailBody", "mail_body"),
		text("attachments", "attachments"),
		str("status", "status", size(20), byDefault(MailStandby)),
		text("responseMsg", "response_msg"),
		datetime("sendDt", "send_dt"),
	},
	Lookups: []resource.Lookup{
		{
			Table: "pre_alert_settings", Alias: "st", LocalColumn: "setting_id", ForeignColumn: "id",
			Fields: []resource.LookupField{{Column: "setting_name", Name: "settingName"}},
		},
	},
	Filters: []resource.FilterSpec{
		eq("docType", "doc_type", resource.String),
		contains("docNo", "doc_no"),
		eq("settingId", "setting_id", resource.Ref),
		eq("mawbId", "mawb_id", resource.Ref),
		eq("hawbId", "hawb_id", resource.Ref),
	},
	SearchColumns: []string{"doc_no", "mail_subject"},
	DateColumn:    resource.ColumnCreatedAt,
	Delete:        resource.HardDelete,
	MaxRows:       500,
}
