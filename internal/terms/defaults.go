// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package terms

// DefaultDevices is the built-in hemostatic device vocabulary: commercial
// device names with trade synonyms, manufacturers, and material classes.
func DefaultDevices() Vocabulary {
	return Vocabulary{
		Name: "hemostatic-devices",
		Groups: []Group{
			{Term: "Hemoblast", Synonyms: []string{"Biom'up"}},
			{Term: "Hemoblast Bellows", Synonyms: []string{"Bellows applicator"}},
			{Term: "Gelfoam", Synonyms: []string{"Gelatin sponge"}},
			{Term: "Gelfoam Plus", Synonyms: []string{"Hemostatic kit"}},
			{Term: "Surgifoam", Synonyms: []string{"Gelatin powder", "Ethicon gelatin"}},
			{Term: "Avitene", Synonyms: []string{"Microfibrillar Collagen", "MCH", "Davol"}},
			{Term: "Ultrafoam", Synonyms: []string{"Bard collagen"}},
			{Term: "Helistat", Synonyms: []string{"Integra sponge"}},
			{Term: "Helitene", Synonyms: []string{"Absorbable felt", "Integra felt"}},
			{Term: "Instat", Synonyms: []string{"Microfibrillar"}},
			{Term: "Surgicel", Synonyms: []string{"Oxidized cellulose", "ORC", "Fibrillar", "Nu-Knit"}},
			{Term: "Arista", Synonyms: []string{"Plant-based powder", "BD powder"}},
			{Term: "Vitasure", Synonyms: []string{"Polysaccharide powder", "Starch-based"}},
			{Term: "Thrombin", Synonyms: []string{"JMI", "Bovine", "Human thrombin"}},
			{Term: "Evithrom", Synonyms: []string{"Human thrombin", "Ethicon thrombin"}},
			{Term: "RecothRom", Synonyms: []string{"rThrombin", "ZymoGenetics"}},
			{Term: "Floseal", Synonyms: []string{"Gelatin-thrombin", "Baxter"}},
			{Term: "SurgiFlo", Synonyms: []string{"Flowable gelatin", "Ethicon matrix"}},
			{Term: "Tisseel", Synonyms: []string{"Fibrin sealant", "Fibrin glue", "Baxter fibrin"}},
			{Term: "Evicel", Synonyms: []string{"Human fibrin", "Crosseal"}},
			{Term: "Vitagel", Synonyms: []string{"Platelet-based", "Orthovita"}},
			{Term: "Tachosil", Synonyms: []string{"Fibrin patch"}},
			{Term: "Evarrest", Synonyms: []string{"Ethicon patch"}},
			{Term: "Vistaseal", Synonyms: []string{"Dual Applicator"}},
			{Term: "Woundclot", Synonyms: []string{"ABC", "Core Scientific"}},
			{Term: "Perclot", Synonyms: []string{"AMP", "CryoLife"}},
			{Term: "Endoclot", Synonyms: []string{"AMP Plus"}},
			{Term: "Cryoseal", Synonyms: []string{"Fibrin system", "FS", "Thermogenesis"}},
		},
	}
}

// DefaultIndicators is the built-in urologic and vascular procedure
// vocabulary: procedure names followed by their common synonyms.
func DefaultIndicators() Vocabulary {
	return Vocabulary{
		Name: "urology-indicators",
		Groups: []Group{
			{Term: "urological surgery", Synonyms: []string{
				"urology procedure", "urologic operation", "genitourinary surgery", "GU surgery",
			}},
			{Term: "vascular surgery", Synonyms: []string{
				"vascular procedure", "blood vessel surgery", "angiosurgery",
			}},
			{Term: "renal transplant", Synonyms: []string{
				"kidney transplant", "kidney transplantation", "renal grafting", "kidney grafting",
			}},
			{Term: "prostatectomy", Synonyms: []string{
				"radical prostatectomy", "prostate removal", "prostate excision",
			}},
			{Term: "nephrectomy", Synonyms: []string{"kidney removal", "renal excision"}},
			{Term: "nephrolithotomy", Synonyms: []string{
				"percutaneous nephrolithotomy", "kidney stone removal", "renal stone removal",
			}},
			{Term: "pyeloplasty", Synonyms: []string{"ureteropelvic junction repair", "UPJ repair"}},
			{Term: "ureterectomy", Synonyms: []string{"ureter removal", "ureteral excision"}},
			{Term: "cystectomy", Synonyms: []string{
				"bladder removal", "bladder excision", "radical cystectomy",
			}},
			{Term: "urethrectomy", Synonyms: []string{"urethra removal", "urethral excision"}},
			{Term: "vasectomy", Synonyms: []string{"sterilization procedure", "male sterilization"}},
			{Term: "hydrocelectomy", Synonyms: []string{"hydrocele repair"}},
			{Term: "varicocelectomy", Synonyms: []string{"varicocele repair", "testicular vein ligation"}},
			{Term: "orchiectomy", Synonyms: []string{
				"testicle removal", "testicular excision", "orchidectomy",
			}},
			{Term: "penectomy", Synonyms: []string{"penis removal", "penile amputation"}},
			{Term: "ovariectomy", Synonyms: []string{"ovary removal", "oophorectomy"}},
			{Term: "salpingectomy", Synonyms: []string{"fallopian tube removal"}},
			{Term: "hysterectomy", Synonyms: []string{
				"uterus removal", "uterine excision", "womb removal",
			}},
			{Term: "ovariohysterectomy", Synonyms: []string{"ovary and uterus removal"}},
			{Term: "salpingo-oophorectomy", Synonyms: []string{
				"ovary and fallopian tube removal", "oophorosalpingectomy",
			}},
			{Term: "myomectomy", Synonyms: []string{
				"fibroid removal", "uterine fibroid excision", "leiomyoma excision",
			}},
			{Term: "trachelectomy", Synonyms: []string{"cervix removal", "cervical excision"}},
			{Term: "vaginectomy", Synonyms: []string{
				"vagina removal", "vaginal excision", "colpectomy",
			}},
			{Term: "vulvectomy", Synonyms: []string{"vulva removal", "vulvar excision"}},
			{Term: "angioplasty", Synonyms: []string{
				"balloon angioplasty", "percutaneous transluminal angioplasty",
			}},
			{Term: "stenting", Synonyms: []string{
				"stent placement", "stent insertion", "endovascular stenting",
			}},
			{Term: "endarterectomy", Synonyms: []string{
				"carotid endarterectomy", "arterial plaque removal",
			}},
			{Term: "thrombectomy", Synonyms: []string{"embolectomy"}},
			{Term: "aneurysm repair", Synonyms: []string{
				"AAA repair", "aortic aneurysm repair", "EVAR", "endovascular aneurysm repair",
			}},
			{Term: "bypass", Synonyms: []string{
				"vascular bypass", "arterial bypass", "coronary bypass", "CABG",
				"vascular bypass grafting",
			}},
			{Term: "aortocaval fistula repair", Synonyms: []string{"aortocaval shunt repair"}},
			{Term: "aortoenteric fistula repair", Synonyms: []string{"aortoenteric connection repair"}},
			{Term: "arteriovenous fistula surgery", Synonyms: []string{
				"AV fistula creation", "AV fistula repair", "vascular access surgery",
			}},
			{Term: "arteriovenous malformation surgery", Synonyms: []string{
				"AVM surgery", "AVM resection",
			}},
			{Term: "renal artery angioplasty", Synonyms: []string{"renal PTA", "kidney artery stenting"}},
			{Term: "endovascular reconstruction"},
			{Term: "arterial reconstruction"},
			{Term: "vein reconstruction"},
			{Term: "vascular graft", Synonyms: []string{
				"arterial graft", "venous graft", "vascular graft placement",
			}},
			{Term: "inferior vena cava filter placement", Synonyms: []string{
				"IVC filter deployment", "caval filter insertion",
			}},
			{Term: "open vascular reconstruction"},
			{Term: "vena cava reconstruction", Synonyms: []string{
				"IVC reconstruction", "caval reconstruction",
			}},
		},
	}
}
