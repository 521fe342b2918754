package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/Deliverx/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

const maxRequestBody = 8 << 20

type solverAPI struct {
	solveService SolveService
	log          *zap.Logger
	validate     *validator.Validate
	trans        ut.Translator
}

func New(solveService SolveService, log *zap.Logger) *solverAPI {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &solverAPI{
		solveService: solveService,
		log:          log,
		validate:     validate,
		trans:        trans,
	}
}

func (api *solverAPI) Routes(group *helper.RouteGroup) {
	group.POST("/solve", api.solve)
	group.GET("/fixtures", api.fixtures)
	group.GET("/fixtures/:name", api.fixture)
}

func (api *solverAPI) solve(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request solveRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.validate.Struct(request); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	problem := request.Problem
	if problem == nil {
		var err error
		problem, err = api.solveService.Fixture(request.Fixture)
		if err != nil {
			api.getStatusCode(w, r, err)
			return
		}
	}

	res, cached, err := api.solveService.Solve(r.Context(), problem, request.params())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			api.log.Info("client went away during search", zap.String("problem", problem.Name))
		}
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewSolveResponse(res, cached)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *solverAPI) fixtures(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": api.solveService.FixtureNames()}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *solverAPI) fixture(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	problem, err := api.solveService.Fixture(p.ByName("name"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": problem}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
