package models

type Area string

const (
	AreaPatronaje   Area = "patronaje"
	AreaCorte       Area = "corte"
	AreaBordado     Area = "bordado"
	AreaEnsamble    Area = "ensamble"
	AreaPlancha     Area = "plancha"
	AreaCalidad     Area = "calidad"
	AreaOperaciones Area = "operaciones"
	AreaEnvios      Area = "envios"
	AreaAdmin       Area = "admin"
)

// WorkflowAreas is the production pipeline in physical order. Envios is the
// terminal sink; admin is a privileged pseudo-area outside the pipeline.
var WorkflowAreas = []Area{
	AreaPatronaje,
	AreaCorte,
	AreaBordado,
	AreaEnsamble,
	AreaPlancha,
	AreaCalidad,
	AreaOperaciones,
	AreaEnvios,
}

// TrackingSequence is the fixed step list used by the reposition tracking view.
var TrackingSequence = []Area{
	AreaPatronaje,
	AreaCorte,
	AreaBordado,
	AreaEnsamble,
	AreaPlancha,
	AreaCalidad,
	AreaOperaciones,
}

func (a Area) IsValid() bool {
	switch a {
	case AreaPatronaje, AreaCorte, AreaBordado, AreaEnsamble, AreaPlancha,
		AreaCalidad, AreaOperaciones, AreaEnvios, AreaAdmin:
		return true
	}
	return false
}

// LegalDestinations returns the downstream areas a source area may transfer
// to. Admin may transfer anywhere. This is advisory (UI guidance); the
// services validate balances and states on their own.
func LegalDestinations(from Area) []Area {
	if from == AreaAdmin {
		dests := make([]Area, len(WorkflowAreas))
		copy(dests, WorkflowAreas)
		return dests
	}
	for i, a := range WorkflowAreas {
		if a == from {
			dests := make([]Area, len(WorkflowAreas)-i-1)
			copy(dests, WorkflowAreas[i+1:])
			return dests
		}
	}
	return nil
}
