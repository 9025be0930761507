// Package financial ships ready-made table definitions for a Chinese retail
// banking domain: customers, accounts, transactions, loans, credit cards,
// bonds, funds and derivatives. The tables carry the enum vocabularies and
// amount bounds of that market, so they double as example schemas, init
// seeds and test fixtures.
package financial

import "github.com/Rana718/Forge/internal/metadata"

// CustomerTable defines the customer master table. Every other table except
// derivative hangs off it.
func CustomerTable() metadata.Table {
	return metadata.Table{
		Name:        "customer",
		Description: "客户信息表",
		PrimaryKey:  "customer_id",
		Fields: []metadata.Field{
			{Name: "customer_id", Type: metadata.TypeID, Description: "客户唯一标识", Required: true, Unique: true, Length: 20},
			{Name: "customer_name", Type: metadata.TypeString, Description: "客户姓名", Required: true, MinLength: 2, MaxLength: 50},
			{Name: "id_card_no", Type: metadata.TypeIDCard, Description: "身份证号", Required: true, Unique: true},
			{Name: "gender", Type: metadata.TypeEnum, Description: "性别", Required: true, EnumValues: []string{"男", "女"}},
			{Name: "birth_date", Type: metadata.TypeDate, Description: "出生日期", Required: true},
			{Name: "phone", Type: metadata.TypePhone, Description: "手机号码", Required: true},
			{Name: "email", Type: metadata.TypeEmail, Description: "电子邮箱"},
			{Name: "address", Type: metadata.TypeString, Description: "联系地址", MaxLength: 200},
			{Name: "customer_type", Type: metadata.TypeEnum, Description: "客户类型", Required: true, EnumValues: []string{"个人", "企业"}},
			{Name: "customer_level", Type: metadata.TypeEnum, Description: "客户等级", Required: true, EnumValues: []string{"普通", "银卡", "金卡", "白金卡", "钻石卡"}},
			{Name: "registration_date", Type: metadata.TypeDate, Description: "注册日期", Required: true},
			{Name: "status", Type: metadata.TypeEnum, Description: "客户状态", Required: true, EnumValues: []string{"正常", "冻结", "注销"}, Default: "正常"},
		},
	}
}

// AccountTable defines deposit accounts, one customer to many accounts.
func AccountTable() metadata.Table {
	return metadata.Table{
		Name:        "account",
		Description: "账户信息表",
		PrimaryKey:  "account_id",
		Fields: []metadata.Field{
			{Name: "account_id", Type: metadata.TypeID, Description: "账户唯一标识", Required: true, Unique: true, Length: 20},
			{Name: "customer_id", Type: metadata.TypeID, Description: "客户ID", Required: true, Length: 20, RefTable: "customer", RefField: "customer_id"},
			{Name: "account_no", Type: metadata.TypeBankCard, Description: "账号", Required: true, Unique: true},
			{Name: "account_type", Type: metadata.TypeEnum, Description: "账户类型", Required: true, EnumValues: []string{"储蓄账户", "支票账户", "定期账户", "信用账户"}},
			{Name: "currency", Type: metadata.TypeEnum, Description: "币种", Required: true, EnumValues: []string{"CNY", "USD", "EUR", "GBP", "JPY", "HKD"}, Default: "CNY"},
			{Name: "balance", Type: metadata.TypeAmount, Description: "账户余额", Required: true, MinValue: metadata.Float(0), MaxValue: metadata.Float(10000000), Precision: metadata.Int(2)},
			{Name: "available_balance", Type: metadata.TypeAmount, Description: "可用余额", Required: true, MinValue: metadata.Float(0), MaxValue: metadata.Float(10000000), Precision: metadata.Int(2)},
			{Name: "open_date", Type: metadata.TypeDate, Description: "开户日期", Required: true},
			{Name: "branch_code", Type: metadata.TypeString, Description: "开户网点代码", Required: true, Length: 10},
			{Name: "status", Type: metadata.TypeEnum, Description: "账户状态", Required: true, EnumValues: []string{"正常", "冻结", "销户"}, Default: "正常"},
		},
	}
}

// TransactionTable defines the movement ledger hanging off account.
func TransactionTable() metadata.Table {
	return metadata.Table{
		Name:        "transaction",
		Description: "交易流水表",
		PrimaryKey:  "transaction_id",
		Fields: []metadata.Field{
			{Name: "transaction_id", Type: metadata.TypeID, Description: "交易唯一标识", Required: true, Unique: true, Length: 32},
			{Name: "account_id", Type: metadata.TypeID, Description: "账户ID", Required: true, Length: 20, RefTable: "account", RefField: "account_id"},
			{Name: "transaction_type", Type: metadata.TypeEnum, Description: "交易类型", Required: true, EnumValues: []string{"存款", "取款", "转账", "消费", "还款", "利息"}},
			{Name: "amount", Type: metadata.TypeAmount, Description: "交易金额", Required: true, MinValue: metadata.Float(0.01), MaxValue: metadata.Float(1000000), Precision: metadata.Int(2)},
			{Name: "balance_after", Type: metadata.TypeAmount, Description: "交易后余额", Required: true, MinValue: metadata.Float(0), Precision: metadata.Int(2)},
			{Name: "transaction_time", Type: metadata.TypeDatetime, Description: "交易时间", Required: true},
			{Name: "channel", Type: metadata.TypeEnum, Description: "交易渠道", Required: true, EnumValues: []string{"柜台", "ATM", "网银", "手机银行", "第三方支付"}},
			{Name: "counterparty_account", Type: metadata.TypeString, Description: "对方账户", MaxLength: 30},
			{Name: "counterparty_name", Type: metadata.TypeString, Description: "对方户名", MaxLength: 100},
			{Name: "remark", Type: metadata.TypeString, Description: "备注", MaxLength: 200},
			{Name: "status", Type: metadata.TypeEnum, Description: "交易状态", Required: true, EnumValues: []string{"成功", "失败", "处理中", "已撤销"}, Default: "成功"},
		},
	}
}

// LoanTable defines loan contracts per customer.
func LoanTable() metadata.Table {
	return metadata.Table{
		Name:        "loan",
		Description: "贷款信息表",
		PrimaryKey:  "loan_id",
		Fields: []metadata.Field{
			{Name: "loan_id", Type: metadata.TypeID, Description: "贷款唯一标识", Required: true, Unique: true, Length: 20},
			{Name: "customer_id", Type: metadata.TypeID, Description: "客户ID", Required: true, Length: 20, RefTable: "customer", RefField: "customer_id"},
			{Name: "loan_type", Type: metadata.TypeEnum, Description: "贷款类型", Required: true, EnumValues: []string{"个人消费贷款", "住房贷款", "汽车贷款", "经营性贷款", "信用贷款"}},
			{Name: "loan_amount", Type: metadata.TypeAmount, Description: "贷款金额", Required: true, MinValue: metadata.Float(10000), MaxValue: metadata.Float(10000000), Precision: metadata.Int(2)},
			{Name: "outstanding_balance", Type: metadata.TypeAmount, Description: "未还余额", Required: true, MinValue: metadata.Float(0), Precision: metadata.Int(2)},
			{Name: "interest_rate", Type: metadata.TypeDecimal, Description: "年利率（%）", Required: true, MinValue: metadata.Float(0.1), MaxValue: metadata.Float(24.0), Precision: metadata.Int(2)},
			{Name: "loan_term", Type: metadata.TypeInteger, Description: "贷款期限（月）", Required: true, MinValue: metadata.Float(1), MaxValue: metadata.Float(360)},
			{Name: "disbursement_date", Type: metadata.TypeDate, Description: "放款日期", Required: true},
			{Name: "maturity_date", Type: metadata.TypeDate, Description: "到期日期", Required: true},
			{Name: "repayment_method", Type: metadata.TypeEnum, Description: "还款方式", Required: true, EnumValues: []string{"等额本息", "等额本金", "先息后本", "一次性还本付息"}},
			{Name: "overdue_days", Type: metadata.TypeInteger, Description: "逾期天数", Required: true, MinValue: metadata.Float(0), MaxValue: metadata.Float(1000), Default: 0},
			{Name: "status", Type: metadata.TypeEnum, Description: "贷款状态", Required: true, EnumValues: []string{"正常", "逾期", "核销", "结清"}},
		},
	}
}

// CreditCardTable defines issued credit cards per customer.
func CreditCardTable() metadata.Table {
	return metadata.Table{
		Name:        "credit_card",
		Description: "信用卡信息表",
		PrimaryKey:  "card_id",
		Fields: []metadata.Field{
			{Name: "card_id", Type: metadata.TypeID, Description: "信用卡唯一标识", Required: true, Unique: true, Length: 20},
			{Name: "customer_id", Type: metadata.TypeID, Description: "客户ID", Required: true, Length: 20, RefTable: "customer", RefField: "customer_id"},
			{Name: "card_no", Type: metadata.TypeBankCard, Description: "卡号", Required: true, Unique: true},
			{Name: "card_type", Type: metadata.TypeEnum, Description: "卡片类型", Required: true, EnumValues: []string{"普卡", "金卡", "白金卡", "钻石卡"}},
			{Name: "credit_limit", Type: metadata.TypeAmount, Description: "信用额度", Required: true, MinValue: metadata.Float(1000), MaxValue: metadata.Float(1000000), Precision: metadata.Int(2)},
			{Name: "available_limit", Type: metadata.TypeAmount, Description: "可用额度", Required: true, MinValue: metadata.Float(0), Precision: metadata.Int(2)},
			{Name: "outstanding_balance", Type: metadata.TypeAmount, Description: "未还款金额", Required: true, MinValue: metadata.Float(0), Precision: metadata.Int(2)},
			{Name: "issue_date", Type: metadata.TypeDate, Description: "发卡日期", Required: true},
			{Name: "expiry_date", Type: metadata.TypeDate, Description: "有效期", Required: true},
			{Name: "billing_day", Type: metadata.TypeInteger, Description: "账单日", Required: true, MinValue: metadata.Float(1), MaxValue: metadata.Float(28)},
			{Name: "payment_due_day", Type: metadata.TypeInteger, Description: "还款日", Required: true, MinValue: metadata.Float(1), MaxValue: metadata.Float(28)},
			{Name: "status", Type: metadata.TypeEnum, Description: "卡片状态", Required: true, EnumValues: []string{"正常", "冻结", "挂失", "注销"}, Default: "正常"},
		},
	}
}

// BondTable defines bond issues. The issuer references the customer table,
// covering corporate customers acting as issuers.
func BondTable() metadata.Table {
	return metadata.Table{
		Name:        "bond",
		Description: "债券信息表",
		PrimaryKey:  "bond_id",
		Fields: []metadata.Field{
			{Name: "bond_id", Type: metadata.TypeID, Description: "债券唯一标识", Required: true, Unique: true, Length: 20},
			{Name: "issuer_id", Type: metadata.TypeID, Description: "发行人ID", Required: true, Length: 20, RefTable: "customer", RefField: "customer_id"},
			{Name: "bond_code", Type: metadata.TypeString, Description: "债券代码", Required: true, Unique: true, Length: 12},
			{Name: "bond_name", Type: metadata.TypeString, Description: "债券名称", Required: true, MinLength: 4, MaxLength: 50},
			{Name: "bond_type", Type: metadata.TypeEnum, Description: "债券类型", Required: true, EnumValues: []string{"国债", "地方政府债", "金融债", "公司债", "企业债", "可转债", "短期融资券", "中期票据"}},
			{Name: "face_value", Type: metadata.TypeAmount, Description: "票面金额", Required: true, MinValue: metadata.Float(100), MaxValue: metadata.Float(1000), Precision: metadata.Int(2)},
			{Name: "coupon_rate", Type: metadata.TypeDecimal, Description: "票面利率（%）", Required: true, MinValue: metadata.Float(0.5), MaxValue: metadata.Float(12.0), Precision: metadata.Int(2)},
			{Name: "issue_price", Type: metadata.TypeAmount, Description: "发行价格", Required: true, MinValue: metadata.Float(90), MaxValue: metadata.Float(110), Precision: metadata.Int(2)},
			{Name: "issue_amount", Type: metadata.TypeAmount, Description: "发行总额", Required: true, MinValue: metadata.Float(1000000), MaxValue: metadata.Float(10000000), Precision: metadata.Int(2)},
			{Name: "issue_date", Type: metadata.TypeDate, Description: "发行日期", Required: true},
			{Name: "maturity_date", Type: metadata.TypeDate, Description: "到期日期", Required: true},
			{Name: "payment_frequency", Type: metadata.TypeEnum, Description: "付息频率", Required: true, EnumValues: []string{"按年付息", "按半年付息", "按季付息", "到期一次还本付息"}},
			{Name: "credit_rating", Type: metadata.TypeEnum, Description: "信用评级", Required: true, EnumValues: []string{"AAA", "AA+", "AA", "AA-", "A+", "A", "BBB"}},
			{Name: "current_price", Type: metadata.TypeAmount, Description: "最新价格", MinValue: metadata.Float(80), MaxValue: metadata.Float(120), Precision: metadata.Int(2)},
			{Name: "status", Type: metadata.TypeEnum, Description: "债券状态", Required: true, EnumValues: []string{"存续", "已到期", "已兑付", "违约"}, Default: "存续"},
		},
	}
}

// FundTable defines mutual funds. The manager references the customer table.
// Net values carry four fractional digits, unlike the two of amount fields.
func FundTable() metadata.Table {
	return metadata.Table{
		Name:        "fund",
		Description: "基金信息表",
		PrimaryKey:  "fund_id",
		Fields: []metadata.Field{
			{Name: "fund_id", Type: metadata.TypeID, Description: "基金唯一标识", Required: true, Unique: true, Length: 20},
			{Name: "fund_code", Type: metadata.TypeString, Description: "基金代码", Required: true, Unique: true, Length: 6},
			{Name: "fund_name", Type: metadata.TypeString, Description: "基金名称", Required: true, MinLength: 4, MaxLength: 50},
			{Name: "fund_type", Type: metadata.TypeEnum, Description: "基金类型", Required: true, EnumValues: []string{"股票型", "债券型", "混合型", "货币型", "指数型", "QDII", "FOF", "ETF", "LOF"}},
			{Name: "fund_manager_id", Type: metadata.TypeID, Description: "基金经理ID", Required: true, Length: 20, RefTable: "customer", RefField: "customer_id"},
			{Name: "management_company", Type: metadata.TypeString, Description: "管理公司", Required: true, MinLength: 4, MaxLength: 50},
			{Name: "custodian_bank", Type: metadata.TypeString, Description: "托管银行", Required: true, MinLength: 4, MaxLength: 50},
			{Name: "establishment_date", Type: metadata.TypeDate, Description: "成立日期", Required: true},
			{Name: "fund_size", Type: metadata.TypeAmount, Description: "基金规模", Required: true, MinValue: metadata.Float(100000), MaxValue: metadata.Float(10000000), Precision: metadata.Int(2)},
			{Name: "net_value", Type: metadata.TypeDecimal, Description: "单位净值", Required: true, MinValue: metadata.Float(0.5), MaxValue: metadata.Float(5), Precision: metadata.Int(4)},
			{Name: "accumulated_net_value", Type: metadata.TypeDecimal, Description: "累计净值", Required: true, MinValue: metadata.Float(0.5), MaxValue: metadata.Float(10), Precision: metadata.Int(4)},
			{Name: "risk_level", Type: metadata.TypeEnum, Description: "风险等级", Required: true, EnumValues: []string{"低风险", "中低风险", "中风险", "中高风险", "高风险"}},
			{Name: "management_fee_rate", Type: metadata.TypeDecimal, Description: "管理费率（%）", Required: true, MinValue: metadata.Float(0.1), MaxValue: metadata.Float(2.5), Precision: metadata.Int(2)},
			{Name: "custodian_fee_rate", Type: metadata.TypeDecimal, Description: "托管费率（%）", Required: true, MinValue: metadata.Float(0.01), MaxValue: metadata.Float(0.5), Precision: metadata.Int(2)},
			{Name: "purchase_fee_rate", Type: metadata.TypeDecimal, Description: "申购费率（%）", MinValue: metadata.Float(0), MaxValue: metadata.Float(1.5), Precision: metadata.Int(2)},
			{Name: "redemption_fee_rate", Type: metadata.TypeDecimal, Description: "赎回费率（%）", MinValue: metadata.Float(0), MaxValue: metadata.Float(1.5), Precision: metadata.Int(2)},
			{Name: "status", Type: metadata.TypeEnum, Description: "基金状态", Required: true, EnumValues: []string{"募集中", "运作中", "暂停申购", "已清盘"}, Default: "运作中"},
		},
	}
}

// DerivativeTable defines exchange-listed derivative contracts. It stands
// alone: contracts reference no other table. Strike price and option type
// only apply to options, so both stay optional.
func DerivativeTable() metadata.Table {
	return metadata.Table{
		Name:        "derivative",
		Description: "金融衍生品信息表",
		PrimaryKey:  "derivative_id",
		Fields: []metadata.Field{
			{Name: "derivative_id", Type: metadata.TypeID, Description: "衍生品唯一标识", Required: true, Unique: true, Length: 20},
			{Name: "contract_code", Type: metadata.TypeString, Description: "合约代码", Required: true, Unique: true, Length: 10},
			{Name: "contract_name", Type: metadata.TypeString, Description: "合约名称", Required: true, MinLength: 4, MaxLength: 50},
			{Name: "derivative_type", Type: metadata.TypeEnum, Description: "衍生品类型", Required: true, EnumValues: []string{"期货", "期权", "远期", "互换", "权证", "结构化产品"}},
			{Name: "underlying_asset_type", Type: metadata.TypeEnum, Description: "标的资产类型", Required: true, EnumValues: []string{"股票", "债券", "商品", "外汇", "利率", "指数", "信用"}},
			{Name: "underlying_asset", Type: metadata.TypeString, Description: "标的资产", Required: true, MinLength: 2, MaxLength: 50},
			{Name: "exchange", Type: metadata.TypeEnum, Description: "交易所", Required: true, EnumValues: []string{"上海期货交易所", "大连商品交易所", "郑州商品交易所", "中国金融期货交易所", "上海证券交易所", "深圳证券交易所"}},
			{Name: "contract_multiplier", Type: metadata.TypeInteger, Description: "合约乘数", Required: true, MinValue: metadata.Float(1), MaxValue: metadata.Float(10000)},
			{Name: "strike_price", Type: metadata.TypeAmount, Description: "行权价格", MinValue: metadata.Float(1), MaxValue: metadata.Float(10000), Precision: metadata.Int(2)},
			{Name: "option_type", Type: metadata.TypeEnum, Description: "期权类型", EnumValues: []string{"看涨", "看跌"}},
			{Name: "listing_date", Type: metadata.TypeDate, Description: "上市日期", Required: true},
			{Name: "expiry_date", Type: metadata.TypeDate, Description: "到期日期", Required: true},
			{Name: "last_trading_date", Type: metadata.TypeDate, Description: "最后交易日", Required: true},
			{Name: "delivery_method", Type: metadata.TypeEnum, Description: "交割方式", Required: true, EnumValues: []string{"实物交割", "现金交割"}},
			{Name: "margin_rate", Type: metadata.TypeDecimal, Description: "保证金率（%）", Required: true, MinValue: metadata.Float(5), MaxValue: metadata.Float(20), Precision: metadata.Int(2)},
			{Name: "tick_size", Type: metadata.TypeDecimal, Description: "最小变动价位", Required: true, MinValue: metadata.Float(0.01), MaxValue: metadata.Float(1), Precision: metadata.Int(4)},
			{Name: "daily_price_limit", Type: metadata.TypeDecimal, Description: "涨跌停板幅度（%）", Required: true, MinValue: metadata.Float(3), MaxValue: metadata.Float(15), Precision: metadata.Int(2)},
			{Name: "status", Type: metadata.TypeEnum, Description: "合约状态", Required: true, EnumValues: []string{"上市交易", "暂停交易", "已退市"}, Default: "上市交易"},
		},
	}
}

// Tables returns all eight definitions, parents before children, so the
// slice can feed a catalog or a generation plan as-is.
func Tables() []metadata.Table {
	return []metadata.Table{
		CustomerTable(),
		AccountTable(),
		TransactionTable(),
		LoanTable(),
		CreditCardTable(),
		BondTable(),
		FundTable(),
		DerivativeTable(),
	}
}

// Catalog returns a catalog preloaded with the full domain pack.
func Catalog() *metadata.Catalog {
	c := metadata.NewCatalog()
	for _, t := range Tables() {
		c.Add(t)
	}
	return c
}
