package profile

import "github.com/leapstack-labs/ratefusion/pkg/core"

// DefaultName is the name of the built-in profile.
const DefaultName = "Default Logic"

func str(id, name, formula string) core.Field {
	return core.Field{ID: id, Name: name, Formula: formula, DataType: core.DataTypeString}
}

func num(id, name, formula string) core.Field {
	return core.Field{ID: id, Name: name, Formula: formula, DataType: core.DataTypeNumber}
}

func date(id, name, formula string) core.Field {
	return core.Field{ID: id, Name: name, Formula: formula, DataType: core.DataTypeDate}
}

// Default returns the built-in ocean rate profile. Each call returns a fresh
// copy that callers may modify.
func Default() *core.Profile {
	p := &core.Profile{ID: "default", Name: DefaultName, IsDefault: true}

	p.SetTable("RATE_GEO", core.TableDef{TableName: "RATE_GEO", Fields: []core.Field{
		str("rg1", "RATE_GEO_GID", "WEGO.{SCAC}_{POLUNLOCODE}_{PODUNLOCODE}_{TYPE || OCEAN}"),
		str("rg2", "RATE_GEO_XID", "{SCAC}_{POLUNLOCODE}_{PODUNLOCODE}_{TYPE || OCEAN}"),
		str("rg3", "RATE_OFFERING_GID", "WEGO.{SCAC}_{TYPE || OCEAN}"),
		str("rg4", "X_LANE_GID", "WEGO.{TYPE || OCEAN}_{POLUNLOCODE}_{PODUNLOCODE}"),
		date("rg5", "EFFECTIVE_DATE", "PROJECT_EFF"),
		date("rg6", "EXPIRATION_DATE", "PROJECT_EXP"),
		str("rg7", "IS_ACTIVE", `"Y"`),
		str("rg8", "DOMAIN_NAME", `"WEGO"`),
	}})

	p.SetTable("RATE_GEO_COST", core.TableDef{TableName: "RATE_GEO_COST", Fields: []core.Field{
		str("rgc1", "RATE_GEO_COST_GID", "WEGO.{SCAC}_{POLUNLOCODE}_{PODUNLOCODE}_{TYPE || OCEAN}_BASE"),
		str("rgc2", "RATE_GEO_COST_XID", "{SCAC}_{POLUNLOCODE}_{PODUNLOCODE}_{TYPE || OCEAN}_BASE"),
		str("rgc3", "RATE_GEO_GID", "WEGO.{SCAC}_{POLUNLOCODE}_{PODUNLOCODE}_{TYPE || OCEAN}"),
		num("rgc4", "AMOUNT", "{Ocean Freight}"),
		num("rgc5", "CHARGE_UNIT_COUNT", `"1"`),
		str("rgc6", "CHARGE_UNIT_UOM", `"SHIPMENT"`),
		str("rgc7", "COST_TYPE", `"B"`),
		str("rgc8", "DOMAIN_NAME", `"WEGO"`),
	}})

	p.SetTable("RATE_GEO_COST_GROUP", core.TableDef{TableName: "RATE_GEO_COST_GROUP", Fields: []core.Field{
		str("rgcg1", "RATE_GEO_COST_GROUP_GID", "WEGO.{SCAC}_{TYPE || OCEAN}"),
		str("rgcg2", "RATE_GEO_COST_GROUP_XID", "{SCAC}_{TYPE || OCEAN}"),
		str("rgcg3", "RATE_GEO_COST_GID", "WEGO.{SCAC}_{POLUNLOCODE}_{PODUNLOCODE}_{TYPE || OCEAN}_BASE"),
		str("rgcg4", "DOMAIN_NAME", `"WEGO"`),
	}})

	p.SetTable("RATE_OFFERING", core.TableDef{TableName: "RATE_OFFERING", Fields: []core.Field{
		str("ro1", "RATE_OFFERING_GID", "WEGO.{SCAC}_{TYPE || OCEAN}"),
		str("ro2", "RATE_OFFERING_XID", "{SCAC}_{TYPE || OCEAN}"),
		str("ro3", "RATE_SERVICE_GID", "WEGO.RS_{TYPE || OCEAN}"),
		str("ro4", "SERVICE_PROVIDER_GID", "WEGO.{SCAC}"),
		date("ro5", "EFFECTIVE_DATE", "PROJECT_EFF"),
		date("ro6", "EXPIRATION_DATE", "PROJECT_EXP"),
		str("ro7", "DOMAIN_NAME", `"WEGO"`),
	}})

	p.SetTable("RATE_SERVICE", core.TableDef{TableName: "RATE_SERVICE", Fields: []core.Field{
		str("rs1", "RATE_SERVICE_GID", "WEGO.RS_{TYPE || OCEAN}"),
		str("rs2", "RATE_SERVICE_XID", "RS_{TYPE || OCEAN}"),
		str("rs3", "RATE_SERVICE_TYPE_GID", "WEGO.{TYPE || OCEAN}"),
		str("rs4", "DOMAIN_NAME", `"WEGO"`),
	}})

	p.SetTable("SERVICE_TIME", core.TableDef{TableName: "SERVICE_TIME", Fields: []core.Field{
		str("st1", "X_LANE_GID", "WEGO.{TYPE || OCEAN}_{POLUNLOCODE}_{PODUNLOCODE}"),
		str("st2", "RATE_SERVICE_GID", "WEGO.RS_{TYPE || OCEAN}"),
		num("st3", "SERVICE_DAYS", "{TransitTime || 14}"),
		str("st4", "DOMAIN_NAME", `"WEGO"`),
	}})

	p.SetTable("X_LANE", core.TableDef{TableName: "X_LANE", Fields: []core.Field{
		str("xl1", "X_LANE_GID", "WEGO.{TYPE || OCEAN}_{POLUNLOCODE}_{PODUNLOCODE}"),
		str("xl2", "X_LANE_XID", "{TYPE || OCEAN}_{POLUNLOCODE}_{PODUNLOCODE}"),
		str("xl3", "SOURCE_LOCATION_GID", "WEGO.{POLUNLOCODE}"),
		str("xl4", "DEST_LOCATION_GID", "WEGO.{PODUNLOCODE}"),
		str("xl5", "DOMAIN_NAME", `"WEGO"`),
	}})

	p.SetTable("PREFERRED_RATES", core.TableDef{TableName: "PREFERRED_RATES", Fields: []core.Field{
		str("pr1", "RATE_GID", "WEGO.PREF_{SCAC}_{POLUNLOCODE}_{PODUNLOCODE}"),
		num("pr2", "AMOUNT", "{Ocean Freight}"),
		date("pr3", "EFFECTIVE_DATE", "PROJECT_EFF"),
		date("pr4", "EXPIRATION_DATE", "PROJECT_EXP"),
		str("pr5", "IS_PREFERRED", "IS_PREFERRED_VAR"),
		str("pr6", "PREFERENCE_LEVEL", `"GOLD"`),
	}})

	return p
}
