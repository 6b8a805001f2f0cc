package universe

import "github.com/wonny/momentum-ranker/internal/ticker"

// DefaultName is the name of the built-in list
const DefaultName = "default"

// b3Tickers is the built-in B3 watch list
var b3Tickers = []string{
	"AALR3", "ABCB4", "ABEV3", "ADMF3", "AERI3", "AGRO3", "ALLD3", "ALOS3", "ALPA3", "ALPA4",
	"ALPK3", "ALUP11", "AMAR3", "AMOB3", "ANIM3", "ARML3", "ASAI3", "AURE3", "AVLL3", "AXIA3",
	"AXIA6", "AZZA3", "B3SA3", "BBAS3", "BBDC3", "BBDC4", "BBSE3", "BEEF3", "BHIA3", "BLAU3",
	"BMEB3", "BMEB4", "BMGB4", "BMOB3", "BPAC11", "BPAN4", "BRAP3", "BRAP4", "BRAV3", "BRBI11",
	"BRKM3", "BRKM5", "BRSR3", "BRSR6", "BRST3", "CAML3", "CASH3", "CBAV3", "CCTY3", "CEAB3",
	"CEDO4", "CLSC4", "CMIG3", "CMIG4", "CMIN3", "COGN3", "CPFE3", "CPLE3", "CPLE5", "CSAN3",
	"CSED3", "CSMG3", "CSNA3", "CSUD3", "CURY3", "CVCB3", "CXSE3", "CYRE3", "DASA3", "DESK3",
	"DEXP3", "DEXP4", "DIRR3", "DMVF3", "DOTZ3", "DXCO3", "ECOR3", "EGIE3", "EMBJ3", "ENEV3",
	"ENGI11", "ENJU3", "EQTL3", "ESPA3", "ETER3", "EUCA3", "EUCA4", "EVEN3", "EZTC3", "FESA4",
	"FHER3", "FIQE3", "FLRY3", "FRAS3", "GFSA3", "GGBR3", "GGBR4", "GGPS3", "GMAT3", "GOAU3",
	"GOAU4", "GRND3", "GUAR3", "HAPV3", "HBOR3", "HBRE3", "HBSA3", "HYPE3", "IGTI11", "INTB3",
	"IRBR3", "ISAE3", "ISAE4", "ITSA3", "ITSA4", "ITUB3", "ITUB4", "JALL3", "JHSF3", "JSLG3",
	"KEPL3", "KLBN11", "LAND3", "LAVV3", "LEVE3", "LJQQ3", "LOGG3", "LOGN3", "LPSB3", "LREN3",
	"LUPA3", "LWSA3", "MATD3", "MBRF3", "MDIA3", "MDNE3", "MEAL3", "MELK3", "MGLU3", "MILS3",
	"MLAS3", "MOTV3", "MOVI3", "MRVE3", "MTRE3", "MULT3", "MYPK3", "NATU3", "NEOE3", "NGRD3",
	"ODPV3", "OFSA3", "ONCO3", "OPCT3", "ORVR3", "PCAR3", "PDTC3", "PETR3", "PETR4", "PETZ3",
	"PFRM3", "PGMN3", "PINE3", "PINE4", "PLPL3", "PNVL3", "POMO3", "POMO4", "POSI3", "PRIO3",
	"PSSA3", "PTBL3", "QUAL3", "RADL3", "RAIL3", "RAIZ4", "RANI3", "RAPT3", "RAPT4", "RCSL3",
	"RCSL4", "RDNI3", "RDOR3", "REAG3", "RECV3", "RENT3", "RNEW3", "RNEW4", "ROMI3", "RVEE3",
	"SANB11", "SAPR11", "SBFG3", "SBSP3", "SCAR3", "SEER3", "SEQL3", "SHOW3", "SIMH3", "SLCE3",
	"SMFT3", "SMTO3", "SOJA3", "SUZB3", "SYNE3", "TAEE11", "TASA3", "TASA4", "TCSA3", "TECN3",
	"TEND3", "TFCO4", "TGMA3", "TIMS3", "TOKY3", "TOTS3", "TPIS3", "TRAD3", "TRIS3", "TTEN3",
	"TUPY3", "UCAS3", "UGPA3", "UNIP6", "USIM3", "USIM5", "VALE3", "VAMO3", "VBBR3", "VITT3",
	"VIVA3", "VIVT3", "VLID3", "VSTE3", "VTRU3", "VULC3", "VVEO3", "WDCN3", "WEGE3", "WEST3",
	"WIZC3", "YDUQ3",
}

// Default returns the built-in universe file holding the B3 list
func Default() *File {
	return &File{
		Lists: []List{{
			Name:           DefaultName,
			Description:    "B3 liquid equities",
			ExchangeSuffix: ticker.DefaultSuffix,
			ChartExchange:  "BMFBOVESPA",
			Tickers:        append([]string(nil), b3Tickers...),
		}},
	}
}
