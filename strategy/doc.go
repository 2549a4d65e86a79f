// Package strategy fits the input→output mapping embedded in a generated FMU.
//
// Two strategies are supported, selected by format.StrategyKind:
//
//   - **Linear**: ordinary least squares of every output on all inputs with an intercept.
//     The score is the average coefficient of determination (R²) over the outputs.
//   - **Logistic**: one multinomial (softmax) classifier per output column, with the
//     output's distinct values as classes in first-seen order. The score is the average
//     training accuracy over the outputs.
//
// Both fits are closed parameter sets: everything needed to evaluate the model is in the
// returned LinearFit or LogisticFit, which the source generator writes out as literals.
//
// # Usage
//
//	res, err := strategy.Fit(tbl, []string{"x", "y"}, []string{"z"}, format.StrategyLinear)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("R²=%.4f\n", res.Score())
//
//	lin := res.(*strategy.LinearFit)
//	z := lin.Predict([]float64{1.5, 2.0})
//
// # Fitting Details
//
// Linear fits center the design matrix and take the minimum-norm least-squares solution
// from a gonum SVD, so collinear inputs are tolerated (with a warning) and the result is
// bit-for-bit reproducible for identical tables.
//
// Logistic fits minimize the L2-penalized cross entropy with L-BFGS. The penalty strength
// follows the usual inverse-regularization parameter C (default 1.0) and does not apply to
// intercepts. Reaching the iteration limit is not an error: the classifier is returned
// with Converged set to false and a warning is logged.
package strategy
